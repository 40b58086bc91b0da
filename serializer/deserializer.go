package serializer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/treekit/model"
)

// Options configure a decode operation.
type Options struct {
	// Logger receives the version-negotiation warnings. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// WithLogger routes decode warnings to the given logger.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Deserializer reconstructs a model from one transport backend. The stored
// version triple is always read first and decides how the rest of the
// artifact is parsed.
type Deserializer struct {
	r      fieldReader
	logger *slog.Logger

	// legacy is fixed by the version negotiation in
	// DeserializeHeaderAndCreateModel and routes DeserializeTrees.
	legacy bool
}

func newDeserializer(r fieldReader, optFns ...func(*Options)) *Deserializer {
	opts := Options{Logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Deserializer{r: r, logger: opts.Logger}
}

// DeserializeHeaderAndCreateModel negotiates the stored version, allocates
// the correctly typed model and reads the remaining header fields.
func (d *Deserializer) DeserializeHeaderAndCreateModel() (*model.Model, error) {
	major, err := readInt32(d.r)
	if err != nil {
		return nil, err
	}
	minor, err := readInt32(d.r)
	if err != nil {
		return nil, err
	}
	patch, err := readInt32(d.r)
	if err != nil {
		return nil, err
	}

	switch Negotiate(major, minor) {
	case Reject:
		return nil, &UnsupportedVersionError{Major: major, Minor: minor, Patch: patch}
	case LegacyMigrate:
		d.logger.Warn("model checkpoint uses the legacy format; re-serialize with the current version to use the latest functionality",
			"stored_version", fmt.Sprintf("%d.%d.%d", major, minor, patch),
			"current_version", fmt.Sprintf("%d.%d.%d", MajorVersion, MinorVersion, PatchVersion),
		)
		d.legacy = true
		return d.deserializeLegacyHeader(major, minor, patch)
	case WarnForward:
		d.logger.Warn("model checkpoint originated from a newer minor version; some functionality may be unavailable",
			"stored_version", fmt.Sprintf("%d.%d.%d", major, minor, patch),
			"current_version", fmt.Sprintf("%d.%d.%d", MajorVersion, MinorVersion, PatchVersion),
		)
	}

	m, err := d.createModel(major, minor, patch)
	if err != nil {
		return nil, err
	}

	if m.NumFeature, err = readInt32(d.r); err != nil {
		return nil, err
	}
	taskType, err := readUint8(d.r)
	if err != nil {
		return nil, err
	}
	m.TaskType = model.TaskType(taskType)
	if m.AverageTreeOutput, err = readBool(d.r); err != nil {
		return nil, err
	}
	taskData, err := d.r.readField(layoutTaskParam)
	if err != nil {
		return nil, err
	}
	m.TaskParam = decodeTaskParam(taskData)
	paramData, err := d.r.readField(layoutModelParam)
	if err != nil {
		return nil, err
	}
	m.Param = decodeModelParam(paramData)

	if err := d.skipOptionalFields(&m.NumOptFieldPerModel); err != nil {
		return nil, err
	}
	return m, nil
}

// createModel reads the numeric type pair and tree count, then allocates
// the correctly typed model through the dispatch table. The type pair is
// always stored in the current encoding, even on the legacy path.
func (d *Deserializer) createModel(major, minor, patch int32) (*model.Model, error) {
	thresholdType, err := readUint8(d.r)
	if err != nil {
		return nil, err
	}
	leafOutputType, err := readUint8(d.r)
	if err != nil {
		return nil, err
	}

	m, err := model.New(model.TypeInfo(thresholdType), model.TypeInfo(leafOutputType))
	if err != nil {
		return nil, err
	}
	m.MajorVer = major
	m.MinorVer = minor
	m.PatchVer = patch

	if m.NumTree, err = readUint64(d.r); err != nil {
		return nil, err
	}
	return m, nil
}

// skipOptionalFields reads an optional-field count and discards exactly
// that many fields without interpreting them.
func (d *Deserializer) skipOptionalFields(count *int32) error {
	n, err := readInt32(d.r)
	if err != nil {
		return err
	}
	*count = n
	for i := int32(0); i < n; i++ {
		if err := d.r.skipField(); err != nil {
			return fmt.Errorf("skipping optional field %d of %d: %w", i+1, n, err)
		}
	}
	return nil
}

// DeserializeTrees reads every tree record, on the layout fixed by the
// version negotiation.
func (d *Deserializer) DeserializeTrees(m *model.Model) error {
	switch v := m.Variant.(type) {
	case *model.Trees[float32, float32]:
		return deserializeTrees(d, m, v)
	case *model.Trees[float32, uint32]:
		return deserializeTrees(d, m, v)
	case *model.Trees[float64, float64]:
		return deserializeTrees(d, m, v)
	case *model.Trees[float64, uint32]:
		return deserializeTrees(d, m, v)
	default:
		return &model.ErrUnsupportedTypePair{Pair: m.TypePair()}
	}
}

func deserializeTrees[T model.Threshold, L model.LeafOutput](d *Deserializer, m *model.Model, v *model.Trees[T, L]) error {
	v.Trees = v.Trees[:0]
	for i := uint64(0); i < m.NumTree; i++ {
		var (
			t   model.Tree[T, L]
			err error
		)
		if d.legacy {
			err = deserializeLegacyTree(d, m, &t)
		} else {
			err = deserializeTree(d, m, &t)
		}
		if err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
		v.Trees = append(v.Trees, t)
	}
	return nil
}

func deserializeTree[T model.Threshold, L model.LeafOutput](d *Deserializer, m *model.Model, t *model.Tree[T, L]) error {
	var err error
	if t.NumNodes, err = readInt32(d.r); err != nil {
		return err
	}
	if t.HasCategoricalSplit, err = readBool(d.r); err != nil {
		return err
	}

	nl, err := nodeLayout(m.ThresholdType)
	if err != nil {
		return err
	}
	n, nodeData, err := d.r.readArrayField(nl)
	if err != nil {
		return err
	}
	if n != int(t.NumNodes) {
		return &CountMismatchError{What: "node", Declared: int64(t.NumNodes), Actual: int64(n)}
	}
	t.Nodes = decodeNodes[T, L](nodeData, n, nl)

	if err := readTreeArrays(d, t); err != nil {
		return err
	}

	if err := d.skipOptionalFields(&t.NumOptFieldPerTree); err != nil {
		return err
	}
	if err := d.skipOptionalFields(&t.NumOptFieldPerNode); err != nil {
		return err
	}
	return t.Validate()
}

// readTreeArrays reads the leaf-vector and matching-category arrays in
// their fixed order. Identical between the current and legacy layouts.
func readTreeArrays[T model.Threshold, L model.LeafOutput](d *Deserializer, t *model.Tree[T, L]) error {
	var zero L
	leafLayout, err := primitiveLayout(typeInfoOfLeaf(zero))
	if err != nil {
		return err
	}
	n, data, err := d.r.readArrayField(leafLayout)
	if err != nil {
		return err
	}
	t.LeafVector = decodeLeafValues[L](data, n, leafLayout.Size)

	if n, data, err = d.r.readArrayField(layoutUint64); err != nil {
		return err
	}
	t.LeafVectorBegin = decodeUint64s(data, n)
	if n, data, err = d.r.readArrayField(layoutUint64); err != nil {
		return err
	}
	t.LeafVectorEnd = decodeUint64s(data, n)

	if n, data, err = d.r.readArrayField(layoutUint32); err != nil {
		return err
	}
	t.MatchingCategories = decodeUint32s(data, n)
	if n, data, err = d.r.readArrayField(layoutUint64); err != nil {
		return err
	}
	t.MatchingCategoriesBegin = decodeUint64s(data, n)
	if n, data, err = d.r.readArrayField(layoutUint64); err != nil {
		return err
	}
	t.MatchingCategoriesEnd = decodeUint64s(data, n)
	return nil
}

func typeInfoOfLeaf(v any) model.TypeInfo {
	switch v.(type) {
	case uint32:
		return model.TypeUInt32
	case float32:
		return model.TypeFloat32
	case float64:
		return model.TypeFloat64
	default:
		return model.TypeInvalid
	}
}

// Read decodes a model from a byte stream.
func Read(r io.Reader, optFns ...func(*Options)) (*model.Model, error) {
	d := newDeserializer(&streamReader{r: r}, optFns...)
	m, err := d.DeserializeHeaderAndCreateModel()
	if err != nil {
		return nil, err
	}
	if err := d.DeserializeTrees(m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromFrames decodes a model from a frame sequence.
func FromFrames(frames []Frame, optFns ...func(*Options)) (*model.Model, error) {
	d := newDeserializer(&frameReader{frames: frames}, optFns...)
	m, err := d.DeserializeHeaderAndCreateModel()
	if err != nil {
		return nil, err
	}
	if err := d.DeserializeTrees(m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
