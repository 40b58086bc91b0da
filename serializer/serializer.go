package serializer

import (
	"fmt"
	"io"

	"github.com/hupe1980/treekit/model"
)

// Serializer produces a deterministic, version-stamped encoding of a model
// over one transport backend. Encoding is a pure function of the model's
// logical state plus the current library version: two encodes of an
// unchanged model produce byte-identical output on the same transport.
type Serializer struct {
	w fieldWriter
}

// SerializeHeader stamps the current library version into the model and
// writes the model header.
func (s *Serializer) SerializeHeader(m *model.Model) error {
	m.MajorVer = MajorVersion
	m.MinorVer = MinorVersion
	m.PatchVer = PatchVersion
	if err := writeInt32(s.w, m.MajorVer); err != nil {
		return err
	}
	if err := writeInt32(s.w, m.MinorVer); err != nil {
		return err
	}
	if err := writeInt32(s.w, m.PatchVer); err != nil {
		return err
	}

	if err := writeUint8(s.w, uint8(m.ThresholdType)); err != nil {
		return err
	}
	if err := writeUint8(s.w, uint8(m.LeafOutputType)); err != nil {
		return err
	}

	m.NumTree = uint64(m.Variant.NumTrees())
	if err := writeUint64(s.w, m.NumTree); err != nil {
		return err
	}

	if err := writeInt32(s.w, m.NumFeature); err != nil {
		return err
	}
	if err := writeUint8(s.w, uint8(m.TaskType)); err != nil {
		return err
	}
	if err := writeBool(s.w, m.AverageTreeOutput); err != nil {
		return err
	}
	if err := s.w.writeField(layoutTaskParam, encodeTaskParam(m.TaskParam)); err != nil {
		return err
	}
	if err := s.w.writeField(layoutModelParam, encodeModelParam(m.Param)); err != nil {
		return err
	}

	// Extension slot 1: per-model optional fields. Reserved; the current
	// version never populates it.
	m.NumOptFieldPerModel = 0
	return writeInt32(s.w, m.NumOptFieldPerModel)
}

// SerializeTrees writes every tree record in order. The declared tree count
// must match the container.
func (s *Serializer) SerializeTrees(m *model.Model) error {
	switch v := m.Variant.(type) {
	case *model.Trees[float32, float32]:
		return serializeTrees(s, m, v)
	case *model.Trees[float32, uint32]:
		return serializeTrees(s, m, v)
	case *model.Trees[float64, float64]:
		return serializeTrees(s, m, v)
	case *model.Trees[float64, uint32]:
		return serializeTrees(s, m, v)
	default:
		return &model.ErrUnsupportedTypePair{Pair: m.TypePair()}
	}
}

func serializeTrees[T model.Threshold, L model.LeafOutput](s *Serializer, m *model.Model, v *model.Trees[T, L]) error {
	if uint64(len(v.Trees)) != m.NumTree {
		return &CountMismatchError{What: "tree", Declared: int64(m.NumTree), Actual: int64(len(v.Trees))}
	}
	for i := range v.Trees {
		if err := serializeTree(s, m, &v.Trees[i]); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func serializeTree[T model.Threshold, L model.LeafOutput](s *Serializer, m *model.Model, t *model.Tree[T, L]) error {
	if int(t.NumNodes) != len(t.Nodes) {
		return &CountMismatchError{What: "node", Declared: int64(t.NumNodes), Actual: int64(len(t.Nodes))}
	}
	if err := writeInt32(s.w, t.NumNodes); err != nil {
		return err
	}
	if err := writeBool(s.w, t.HasCategoricalSplit); err != nil {
		return err
	}

	nl, err := nodeLayout(m.ThresholdType)
	if err != nil {
		return err
	}
	if err := s.w.writeArrayField(nl, len(t.Nodes), encodeNodes(t.Nodes, nl)); err != nil {
		return err
	}

	leafData, leafLayout := encodeLeafValues(t.LeafVector)
	if err := s.w.writeArrayField(leafLayout, len(t.LeafVector), leafData); err != nil {
		return err
	}
	if err := s.w.writeArrayField(layoutUint64, len(t.LeafVectorBegin), encodeUint64s(t.LeafVectorBegin)); err != nil {
		return err
	}
	if err := s.w.writeArrayField(layoutUint64, len(t.LeafVectorEnd), encodeUint64s(t.LeafVectorEnd)); err != nil {
		return err
	}
	if err := s.w.writeArrayField(layoutUint32, len(t.MatchingCategories), encodeUint32s(t.MatchingCategories)); err != nil {
		return err
	}
	if err := s.w.writeArrayField(layoutUint64, len(t.MatchingCategoriesBegin), encodeUint64s(t.MatchingCategoriesBegin)); err != nil {
		return err
	}
	if err := s.w.writeArrayField(layoutUint64, len(t.MatchingCategoriesEnd), encodeUint64s(t.MatchingCategoriesEnd)); err != nil {
		return err
	}

	// Extension slots 2 and 3: per-tree and per-node optional fields.
	// Reserved; the current version never populates them.
	t.NumOptFieldPerTree = 0
	if err := writeInt32(s.w, t.NumOptFieldPerTree); err != nil {
		return err
	}
	t.NumOptFieldPerNode = 0
	return writeInt32(s.w, t.NumOptFieldPerNode)
}

// Write encodes a model onto a byte stream.
func Write(w io.Writer, m *model.Model) error {
	s := &Serializer{w: &streamWriter{w: w}}
	if err := s.SerializeHeader(m); err != nil {
		return err
	}
	return s.SerializeTrees(m)
}

// Frames encodes a model as a sequence of length-tagged frames, suitable
// for zero-copy in-process handoff.
func Frames(m *model.Model) ([]Frame, error) {
	fw := &frameWriter{}
	s := &Serializer{w: fw}
	if err := s.SerializeHeader(m); err != nil {
		return nil, err
	}
	if err := s.SerializeTrees(m); err != nil {
		return nil, err
	}
	return fw.frames, nil
}
