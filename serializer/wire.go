package serializer

import (
	"encoding/binary"
	"math"

	"github.com/hupe1980/treekit/model"
)

// Byte-level field encoding. Everything on the wire is little-endian;
// composite records are packed with no implicit padding beyond what their
// layout descriptor spells out.

func writeInt32(w fieldWriter, v int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return w.writeField(layoutInt32, buf[:])
}

func readInt32(r fieldReader) (int32, error) {
	data, err := r.readField(layoutInt32)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(data)), nil
}

func writeUint8(w fieldWriter, v uint8) error {
	return w.writeField(layoutUint8, []byte{v})
}

func readUint8(r fieldReader) (uint8, error) {
	data, err := r.readField(layoutUint8)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func writeBool(w fieldWriter, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return w.writeField(layoutBool, []byte{b})
}

func readBool(r fieldReader) (bool, error) {
	data, err := r.readField(layoutBool)
	if err != nil {
		return false, err
	}
	return data[0] != 0, nil
}

func writeUint64(w fieldWriter, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return w.writeField(layoutUint64, buf[:])
}

func readUint64(r fieldReader) (uint64, error) {
	data, err := r.readField(layoutUint64)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// Task-parameter composite, per layoutTaskParam.

func encodeTaskParam(p model.TaskParam) []byte {
	buf := make([]byte, layoutTaskParam.Size)
	buf[0] = uint8(p.OutputType)
	if p.GrovePerClass {
		buf[1] = 1
	}
	binary.LittleEndian.PutUint32(buf[4:], p.NumClass)
	binary.LittleEndian.PutUint32(buf[8:], p.LeafVectorSize)
	return buf
}

func decodeTaskParam(data []byte) model.TaskParam {
	return model.TaskParam{
		OutputType:     model.OutputType(data[0]),
		GrovePerClass:  data[1] != 0,
		NumClass:       binary.LittleEndian.Uint32(data[4:]),
		LeafVectorSize: binary.LittleEndian.Uint32(data[8:]),
	}
}

// Model-parameter composite, per layoutModelParam.

func encodeModelParam(p model.ModelParam) []byte {
	buf := make([]byte, layoutModelParam.Size)
	copy(buf, p.PredTransform[:])
	off := model.PredTransformLen
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(p.SigmoidAlpha))
	binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(p.RatioC))
	binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(p.GlobalBias))
	return buf
}

func decodeModelParam(data []byte) model.ModelParam {
	var p model.ModelParam
	copy(p.PredTransform[:], data[:model.PredTransformLen])
	off := model.PredTransformLen
	p.SigmoidAlpha = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	p.RatioC = math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:]))
	p.GlobalBias = math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:]))
	return p
}

// Value-slot handling. The slot is sized by the threshold type, which is at
// least as wide as every supported leaf-output type; a leaf output occupies
// the low bytes with the remainder zeroed.

func slotSize[T model.Threshold]() int {
	var t T
	if _, ok := any(t).(float32); ok {
		return 4
	}
	return 8
}

func putThresholdBits[T model.Threshold](buf []byte, v T) {
	switch x := any(v).(type) {
	case float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(x))
	}
}

func takeThresholdBits[T model.Threshold](buf []byte) T {
	var v T
	switch any(v).(type) {
	case float32:
		return any(math.Float32frombits(binary.LittleEndian.Uint32(buf))).(T)
	default:
		return any(math.Float64frombits(binary.LittleEndian.Uint64(buf))).(T)
	}
}

func putLeafBits[L model.LeafOutput](buf []byte, v L) {
	switch x := any(v).(type) {
	case uint32:
		binary.LittleEndian.PutUint32(buf, x)
	case float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(x))
	}
}

func takeLeafBits[L model.LeafOutput](buf []byte) L {
	var v L
	switch any(v).(type) {
	case uint32:
		return any(binary.LittleEndian.Uint32(buf)).(L)
	case float32:
		return any(math.Float32frombits(binary.LittleEndian.Uint32(buf))).(L)
	default:
		return any(math.Float64frombits(binary.LittleEndian.Uint64(buf))).(L)
	}
}

// Node composite records.

func encodeNodes[T model.Threshold, L model.LeafOutput](nodes []model.Node[T, L], layout Layout) []byte {
	buf := make([]byte, len(nodes)*layout.Size)
	for i := range nodes {
		encodeNode(buf[i*layout.Size:(i+1)*layout.Size], &nodes[i])
	}
	return buf
}

func encodeNode[T model.Threshold, L model.LeafOutput](buf []byte, n *model.Node[T, L]) {
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
	buf[off] = uint8(n.Cmp)
	buf[off+1] = uint8(n.SplitType)
	putFlag(buf, off+2, n.CategoriesListRightChild)
	putFlag(buf, off+3, n.DataCountPresent)
	putFlag(buf, off+4, n.SumHessPresent)
	putFlag(buf, off+5, n.GainPresent)
	binary.LittleEndian.PutUint64(buf[off+6:], n.DataCount)
	binary.LittleEndian.PutUint64(buf[off+14:], math.Float64bits(n.SumHess))
	binary.LittleEndian.PutUint64(buf[off+22:], math.Float64bits(n.Gain))
}

func decodeNodes[T model.Threshold, L model.LeafOutput](data []byte, n int, layout Layout) []model.Node[T, L] {
	nodes := make([]model.Node[T, L], n)
	for i := 0; i < n; i++ {
		decodeNode(data[i*layout.Size:(i+1)*layout.Size], &nodes[i])
	}
	return nodes
}

func decodeNode[T model.Threshold, L model.LeafOutput](buf []byte, n *model.Node[T, L]) {
	n.CLeft = int32(binary.LittleEndian.Uint32(buf[0:]))
	n.CRight = int32(binary.LittleEndian.Uint32(buf[4:]))
	n.SIndex = binary.LittleEndian.Uint32(buf[8:])
	slot := buf[12 : 12+slotSize[T]()]
	off := 12 + slotSize[T]()
	n.Cmp = model.Operator(buf[off])
	n.SplitType = model.SplitFeatureType(buf[off+1])
	n.CategoriesListRightChild = buf[off+2] != 0
	n.DataCountPresent = buf[off+3] != 0
	n.SumHessPresent = buf[off+4] != 0
	n.GainPresent = buf[off+5] != 0
	n.DataCount = binary.LittleEndian.Uint64(buf[off+6:])
	n.SumHess = math.Float64frombits(binary.LittleEndian.Uint64(buf[off+14:]))
	n.Gain = math.Float64frombits(binary.LittleEndian.Uint64(buf[off+22:]))
	if n.IsLeaf() {
		n.LeafValue = takeLeafBits[L](slot)
	} else {
		n.Threshold = takeThresholdBits[T](slot)
	}
}

func putFlag(buf []byte, off int, v bool) {
	if v {
		buf[off] = 1
	}
}

// Primitive arrays.

func encodeLeafValues[L model.LeafOutput](vals []L) ([]byte, Layout) {
	var zero L
	layout := layoutFloat32
	switch any(zero).(type) {
	case uint32:
		layout = layoutUint32
	case float64:
		layout = layoutFloat64
	}
	buf := make([]byte, len(vals)*layout.Size)
	for i, v := range vals {
		putLeafBits(buf[i*layout.Size:], v)
	}
	return buf, layout
}

func decodeLeafValues[L model.LeafOutput](data []byte, n int, size int) []L {
	if n == 0 {
		return nil
	}
	vals := make([]L, n)
	for i := 0; i < n; i++ {
		vals[i] = takeLeafBits[L](data[i*size:])
	}
	return vals
}

func encodeUint32s(vals []uint32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

func decodeUint32s(data []byte, n int) []uint32 {
	if n == 0 {
		return nil
	}
	vals := make([]uint32, n)
	for i := 0; i < n; i++ {
		vals[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return vals
}

func encodeUint64s(vals []uint64) []byte {
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return buf
}

func decodeUint64s(data []byte, n int) []uint64 {
	if n == 0 {
		return nil
	}
	vals := make([]uint64, n)
	for i := 0; i < n; i++ {
		vals[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return vals
}
