package serializer

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/treekit/model"
)

// legacyEncoder fabricates 3.9 checkpoint streams for tests; the current
// version has no production writer for the frozen format.
type legacyEncoder struct {
	t *testing.T
	w *streamWriter
}

func newLegacyEncoder(t *testing.T, buf *bytes.Buffer) *legacyEncoder {
	t.Helper()
	return &legacyEncoder{t: t, w: &streamWriter{w: buf}}
}

func (e *legacyEncoder) int32(v int32)   { require.NoError(e.t, writeInt32(e.w, v)) }
func (e *legacyEncoder) uint8(v uint8)   { require.NoError(e.t, writeUint8(e.w, v)) }
func (e *legacyEncoder) boolean(v bool)  { require.NoError(e.t, writeBool(e.w, v)) }
func (e *legacyEncoder) uint64(v uint64) { require.NoError(e.t, writeUint64(e.w, v)) }

func (e *legacyEncoder) field(l Layout, data []byte) {
	require.NoError(e.t, e.w.writeField(l, data))
}

func (e *legacyEncoder) array(l Layout, n int, data []byte) {
	require.NoError(e.t, e.w.writeArrayField(l, n, data))
}

// legacyCheckpoint writes a complete 3.9 artifact holding one three-node
// float32 tree with a multiclass task header.
func legacyCheckpoint(t *testing.T) ([]byte, []model.Node[float32, float32]) {
	t.Helper()

	nodes := []model.Node[float32, float32]{
		{
			CLeft: 1, CRight: 2,
			SIndex:    model.PackSplitIndex(2, true),
			Threshold: 0.5,
			Cmp:       model.OpLT,
			SplitType: model.SplitNumerical,
			DataCount: 100, DataCountPresent: true,
			SumHess: 25.5, SumHessPresent: true,
			Gain: 1.25, GainPresent: true,
		},
		{CLeft: -1, CRight: -1, LeafValue: -1.0},
		{CLeft: -1, CRight: -1, LeafValue: 1.0},
	}

	var buf bytes.Buffer
	e := newLegacyEncoder(t, &buf)

	e.int32(LegacyMajorVersion)
	e.int32(LegacyMinorVersion)
	e.int32(0)
	e.uint8(uint8(model.TypeFloat32))
	e.uint8(uint8(model.TypeFloat32))
	e.uint64(1)

	e.int32(4)
	e.uint8(legacyTaskMultiClfGrovePerClass)
	e.boolean(true)
	e.field(layoutTaskParam, encodeTaskParam(model.TaskParam{
		OutputType:     model.OutputFloat,
		GrovePerClass:  true,
		NumClass:       3,
		LeafVectorSize: 1,
	}))
	param := model.ModelParam{SigmoidAlpha: 0.5, RatioC: 2.0, GlobalBias: 0.1}
	require.NoError(t, param.SetPredTransform("softmax"))
	e.field(layoutModelParam, encodeModelParam(param))
	e.int32(0)

	e.int32(int32(len(nodes)))
	e.boolean(false)

	nodeData := make([]byte, len(nodes)*layoutLegacyNodeF32.Size)
	for i := range nodes {
		encodeLegacyNode(nodeData[i*layoutLegacyNodeF32.Size:(i+1)*layoutLegacyNodeF32.Size], &nodes[i])
	}
	e.array(layoutLegacyNodeF32, len(nodes), nodeData)

	ranges := encodeUint64s([]uint64{0, 0, 0})
	e.array(layoutFloat32, 0, nil)
	e.array(layoutUint64, 3, ranges)
	e.array(layoutUint64, 3, ranges)
	e.array(layoutUint32, 0, nil)
	e.array(layoutUint64, 3, ranges)
	e.array(layoutUint64, 3, ranges)

	e.int32(0)
	e.int32(0)

	return buf.Bytes(), nodes
}

func TestReadLegacyCheckpoint(t *testing.T) {
	raw, nodes := legacyCheckpoint(t)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	m, err := Read(bytes.NewReader(raw), WithLogger(logger))
	require.NoError(t, err)
	require.Contains(t, logs.String(), "legacy format")

	require.True(t, m.IsLegacy())
	require.Equal(t, int32(3), m.MajorVer)
	require.Equal(t, int32(9), m.MinorVer)
	require.Equal(t, int32(4), m.NumFeature)
	require.True(t, m.AverageTreeOutput)

	require.Equal(t, legacyTaskMultiClfGrovePerClass, m.Legacy.TaskType)
	require.True(t, m.Legacy.TaskParam.GrovePerClass)
	require.Equal(t, uint32(3), m.Legacy.TaskParam.NumClass)
	require.Equal(t, float32(0.5), m.Legacy.ModelParam.SigmoidAlpha)
	require.Equal(t, float32(2.0), m.Legacy.ModelParam.RatioC)
	require.True(t, bytes.HasPrefix(m.Legacy.ModelParam.PredTransform[:], []byte("softmax")))

	v, err := model.TreesOf[float32, float32](m)
	require.NoError(t, err)
	require.Len(t, v.Trees, 1)
	require.Equal(t, nodes, v.Trees[0].Nodes)

	require.ErrorIs(t, m.UpgradeLegacy(), model.ErrLegacyConversionUnsupported)
}

// The legacy node record holds the identical field set in a different
// order; decode must be the exact inverse of encode.
func TestLegacyNodeRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		node model.Node[float64, uint32]
	}{
		{
			name: "Split node",
			node: model.Node[float64, uint32]{
				CLeft: 1, CRight: 2,
				SIndex:    model.PackSplitIndex(7, false),
				Threshold: 3.25,
				Cmp:       model.OpGE,
				SplitType: model.SplitNumerical,
			},
		},
		{
			name: "Leaf node with stats",
			node: model.Node[float64, uint32]{
				CLeft: -1, CRight: -1,
				LeafValue: 42,
				DataCount: 9, DataCountPresent: true,
				SumHess: 0.5, SumHessPresent: true,
			},
		},
		{
			name: "Categorical split",
			node: model.Node[float64, uint32]{
				CLeft: 1, CRight: 2,
				SIndex:                   model.PackSplitIndex(0, true),
				Threshold:                0,
				SplitType:                model.SplitCategorical,
				CategoriesListRightChild: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, layoutLegacyNodeF64.Size)
			encodeLegacyNode(buf, &tt.node)

			var got model.Node[float64, uint32]
			decodeLegacyNode(buf, &got)
			require.Equal(t, tt.node, got)
		})
	}
}

func TestLegacyTruncated(t *testing.T) {
	raw, _ := legacyCheckpoint(t)

	_, err := Read(bytes.NewReader(raw[:len(raw)-10]), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.ErrorIs(t, err, ErrUnexpectedEnd)
}
