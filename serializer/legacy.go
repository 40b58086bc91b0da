package serializer

import (
	"encoding/binary"
	"math"

	"github.com/hupe1980/treekit/model"
)

// Legacy (3.9) record layer. The structural parse of the frozen legacy
// layout is implemented faithfully: field shapes, counts and the
// optional-field skip loops. The semantic remapping of the four-variant
// legacy task encoding onto the current five-variant one is deliberately
// not: the raw legacy records are retained on model.Model.Legacy and
// model.Model.UpgradeLegacy reports the conversion as unsupported.

// Legacy task-type variants. Retained for documentation of the frozen
// format; the stored byte is kept verbatim in model.LegacyHeader.TaskType.
const (
	legacyTaskBinaryClfRegr         uint8 = 0
	legacyTaskMultiClfGrovePerClass uint8 = 1
	legacyTaskMultiClfProbDistLeaf  uint8 = 2
	legacyTaskMultiClfCategLeaf     uint8 = 3
)

func (d *Deserializer) deserializeLegacyHeader(major, minor, patch int32) (*model.Model, error) {
	m, err := d.createModel(major, minor, patch)
	if err != nil {
		return nil, err
	}
	legacy := &model.LegacyHeader{}

	if m.NumFeature, err = readInt32(d.r); err != nil {
		return nil, err
	}
	if legacy.TaskType, err = readUint8(d.r); err != nil {
		return nil, err
	}
	if m.AverageTreeOutput, err = readBool(d.r); err != nil {
		return nil, err
	}
	taskData, err := d.r.readField(layoutTaskParam)
	if err != nil {
		return nil, err
	}
	legacy.TaskParam = decodeLegacyTaskParam(taskData)
	paramData, err := d.r.readField(layoutModelParam)
	if err != nil {
		return nil, err
	}
	legacy.ModelParam = decodeLegacyModelParam(paramData)

	if err := d.skipOptionalFields(&m.NumOptFieldPerModel); err != nil {
		return nil, err
	}

	m.Legacy = legacy
	return m, nil
}

func deserializeLegacyTree[T model.Threshold, L model.LeafOutput](d *Deserializer, m *model.Model, t *model.Tree[T, L]) error {
	var err error
	if t.NumNodes, err = readInt32(d.r); err != nil {
		return err
	}
	if t.HasCategoricalSplit, err = readBool(d.r); err != nil {
		return err
	}

	nl, err := legacyNodeLayout(m.ThresholdType)
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
	// The legacy node record carries the identical field set in a
	// different order, so mapping it onto the current node struct is a
	// pure reordering.
	t.Nodes = decodeLegacyNodes[T, L](nodeData, n, nl)

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

func decodeLegacyTaskParam(data []byte) model.LegacyTaskParam {
	return model.LegacyTaskParam{
		OutputType:     data[0],
		GrovePerClass:  data[1] != 0,
		NumClass:       binary.LittleEndian.Uint32(data[4:]),
		LeafVectorSize: binary.LittleEndian.Uint32(data[8:]),
	}
}

func decodeLegacyModelParam(data []byte) model.LegacyModelParam {
	var p model.LegacyModelParam
	copy(p.PredTransform[:], data[:model.PredTransformLen])
	off := model.PredTransformLen
	p.SigmoidAlpha = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	p.RatioC = math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:]))
	p.GlobalBias = math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:]))
	return p
}

func decodeLegacyNodes[T model.Threshold, L model.LeafOutput](data []byte, n int, layout Layout) []model.Node[T, L] {
	nodes := make([]model.Node[T, L], n)
	for i := 0; i < n; i++ {
		decodeLegacyNode(data[i*layout.Size:(i+1)*layout.Size], &nodes[i])
	}
	return nodes
}

func decodeLegacyNode[T model.Threshold, L model.LeafOutput](buf []byte, n *model.Node[T, L]) {
	n.CLeft = int32(binary.LittleEndian.Uint32(buf[0:]))
	n.CRight = int32(binary.LittleEndian.Uint32(buf[4:]))
	n.SIndex = binary.LittleEndian.Uint32(buf[8:])
	slot := buf[12 : 12+slotSize[T]()]
	off := 12 + slotSize[T]()
	n.DataCount = binary.LittleEndian.Uint64(buf[off:])
	n.SumHess = math.Float64frombits(binary.LittleEndian.Uint64(buf[off+8:]))
	n.Gain = math.Float64frombits(binary.LittleEndian.Uint64(buf[off+16:]))
	n.SplitType = model.SplitFeatureType(buf[off+24])
	n.Cmp = model.Operator(buf[off+25])
	n.DataCountPresent = buf[off+26] != 0
	n.SumHessPresent = buf[off+27] != 0
	n.GainPresent = buf[off+28] != 0
	n.CategoriesListRightChild = buf[off+29] != 0
	if n.IsLeaf() {
		n.LeafValue = takeLeafBits[L](slot)
	} else {
		n.Threshold = takeThresholdBits[T](slot)
	}
}

// encodeLegacyNode is the writing counterpart of decodeLegacyNode. The
// current version never writes legacy artifacts; this exists so tests can
// fabricate 3.9 checkpoints.
func encodeLegacyNode[T model.Threshold, L model.LeafOutput](buf []byte, n *model.Node[T, L]) {
	binary.LittleEndian.PutUint32(buf[0:], uint32(n.CLeft))
	binary.LittleEndian.PutUint32(buf[4:], uint32(n.CRight))
	binary.LittleEndian.PutUint32(buf[8:], n.SIndex)
	slot := buf[12 : 12+slotSize[T]()]
	if n.IsLeaf() {
		putLeafBits(slot, n.LeafValue)
	} else {
		putThresholdBits(slot, n.Threshold)
	}
	off := 12 + slotSize[T]()
	binary.LittleEndian.PutUint64(buf[off:], n.DataCount)
	binary.LittleEndian.PutUint64(buf[off+8:], math.Float64bits(n.SumHess))
	binary.LittleEndian.PutUint64(buf[off+16:], math.Float64bits(n.Gain))
	buf[off+24] = uint8(n.SplitType)
	buf[off+25] = uint8(n.Cmp)
	putFlag(buf, off+26, n.DataCountPresent)
	putFlag(buf, off+27, n.SumHessPresent)
	putFlag(buf, off+28, n.GainPresent)
	putFlag(buf, off+29, n.CategoriesListRightChild)
}
