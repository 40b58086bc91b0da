package model

import (
	"errors"
	"fmt"
)

// ErrLegacyConversionUnsupported is returned when a caller asks for the
// semantic upgrade of legacy (3.9) task metadata. The structural decode of
// legacy checkpoints is supported; the task-type and parameter remapping is
// not defined yet.
var ErrLegacyConversionUnsupported = errors.New("conversion of legacy task metadata is not yet supported")

// LegacyTaskParam is the frozen 3.9 task-parameter record.
type LegacyTaskParam struct {
	OutputType     uint8
	GrovePerClass  bool
	NumClass       uint32
	LeafVectorSize uint32
}

// LegacyModelParam is the frozen 3.9 model-parameter record.
type LegacyModelParam struct {
	PredTransform [PredTransformLen]byte
	SigmoidAlpha  float32
	RatioC        float32
	GlobalBias    float32
}

// LegacyHeader retains the raw task records of a legacy checkpoint so that
// nothing is lost even though their semantic remapping onto the current
// TaskType/TaskParam is unresolved.
type LegacyHeader struct {
	TaskType   uint8
	TaskParam  LegacyTaskParam
	ModelParam LegacyModelParam
}

// Model is a decision-tree ensemble.
type Model struct {
	// Version triple of the library that produced the artifact. Stamped
	// at encode time; reflects the stored artifact after a decode.
	MajorVer int32
	MinorVer int32
	PatchVer int32

	ThresholdType  TypeInfo
	LeafOutputType TypeInfo

	// NumTree is the declared tree count. Must equal Variant.NumTrees().
	NumTree uint64

	NumFeature        int32
	TaskType          TaskType
	AverageTreeOutput bool
	TaskParam         TaskParam
	Param             ModelParam

	// Reserved extension slot, always zero at the current version.
	NumOptFieldPerModel int32

	// Legacy is set only when the model was decoded from the 3.9 legacy
	// checkpoint format. TaskType, TaskParam and Param then hold neutral
	// defaults and the retained legacy records are authoritative; see
	// UpgradeLegacy.
	Legacy *LegacyHeader

	Variant Variant
}

// New allocates an empty model for the given type pair, with neutral task
// and prediction-transform parameters.
func New(thresholdType, leafOutputType TypeInfo) (*Model, error) {
	v, err := NewVariant(TypePair{Threshold: thresholdType, LeafOutput: leafOutputType})
	if err != nil {
		return nil, err
	}
	return &Model{
		ThresholdType:  thresholdType,
		LeafOutputType: leafOutputType,
		TaskType:       TaskRegressor,
		TaskParam:      DefaultTaskParam(),
		Param:          DefaultModelParam(),
		Variant:        v,
	}, nil
}

// TypePair returns the numeric type pair of the model.
func (m *Model) TypePair() TypePair {
	return TypePair{Threshold: m.ThresholdType, LeafOutput: m.LeafOutputType}
}

// IsLegacy reports whether the model was decoded from the legacy
// checkpoint format.
func (m *Model) IsLegacy() bool { return m.Legacy != nil }

// UpgradeLegacy would remap the retained legacy task records onto the
// current task-type and parameter encoding.
func (m *Model) UpgradeLegacy() error {
	if m.Legacy == nil {
		return nil
	}
	return ErrLegacyConversionUnsupported
}

// Validate checks the model-level invariants: the variant matches the
// declared type pair, the declared tree count matches the container, and
// every tree satisfies its own invariants.
func (m *Model) Validate() error {
	if m.Variant == nil {
		return errors.New("model has no tree container")
	}
	if got := m.Variant.TypePair(); got != m.TypePair() {
		return fmt.Errorf("type pair mismatch: declared %s, container %s", m.TypePair(), got)
	}
	if got := uint64(m.Variant.NumTrees()); got != m.NumTree {
		return fmt.Errorf("tree count mismatch: declared %d, actual %d", m.NumTree, got)
	}
	switch v := m.Variant.(type) {
	case *Trees[float32, float32]:
		return validateTrees(v)
	case *Trees[float32, uint32]:
		return validateTrees(v)
	case *Trees[float64, float64]:
		return validateTrees(v)
	case *Trees[float64, uint32]:
		return validateTrees(v)
	default:
		return &ErrUnsupportedTypePair{Pair: m.TypePair()}
	}
}

func validateTrees[T Threshold, L LeafOutput](v *Trees[T, L]) error {
	for i := range v.Trees {
		if err := v.Trees[i].Validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
