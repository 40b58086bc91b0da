package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTaskType(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		for _, tt := range []TaskType{TaskBinaryClf, TaskRegressor, TaskMultiClf, TaskLearningToRank, TaskIsolationForest} {
			got, err := ParseTaskType(tt.String())
			require.NoError(t, err)
			require.Equal(t, tt, got)
		}
	})

	t.Run("Unknown code", func(t *testing.T) {
		_, err := ParseTaskType("kRanker")
		require.Error(t, err)
	})
}

func TestDefaultTaskParam(t *testing.T) {
	p := DefaultTaskParam()
	require.Equal(t, OutputFloat, p.OutputType)
	require.False(t, p.GrovePerClass)
	require.Equal(t, uint32(1), p.NumClass)
	require.Equal(t, uint32(1), p.LeafVectorSize)
}

func TestModelParamPredTransform(t *testing.T) {
	t.Run("Default is identity", func(t *testing.T) {
		p := DefaultModelParam()
		require.Equal(t, "identity", p.PredTransformName())
		require.Equal(t, float32(1.0), p.SigmoidAlpha)
		require.Equal(t, float32(1.0), p.RatioC)
	})

	t.Run("Set known transform", func(t *testing.T) {
		p := DefaultModelParam()
		require.NoError(t, p.SetPredTransform("sigmoid"))
		require.Equal(t, "sigmoid", p.PredTransformName())
	})

	t.Run("Set clears previous name", func(t *testing.T) {
		p := DefaultModelParam()
		require.NoError(t, p.SetPredTransform("logarithm_one_plus_exp"))
		require.NoError(t, p.SetPredTransform("hinge"))
		require.Equal(t, "hinge", p.PredTransformName())
	})

	t.Run("Unknown transform rejected", func(t *testing.T) {
		p := DefaultModelParam()
		require.Error(t, p.SetPredTransform("relu"))
		require.Equal(t, "identity", p.PredTransformName())
	})
}
