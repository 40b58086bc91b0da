package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New(TypeFloat32, TypeUInt32)
	require.NoError(t, err)
	require.Equal(t, TypePair{TypeFloat32, TypeUInt32}, m.TypePair())
	require.Equal(t, TaskRegressor, m.TaskType)
	require.Equal(t, "identity", m.Param.PredTransformName())
	require.False(t, m.IsLegacy())
	require.NotNil(t, m.Variant)

	_, err = New(TypeUInt32, TypeFloat32)
	require.Error(t, err)
}

func TestModelValidate(t *testing.T) {
	newModel := func(t *testing.T) *Model {
		t.Helper()
		m, err := New(TypeFloat32, TypeFloat32)
		require.NoError(t, err)

		b := NewTreeBuilder[float32, float32]()
		b.Leaf(b.AddNode(), 0.5)
		tree, err := b.Build()
		require.NoError(t, err)

		v, err := TreesOf[float32, float32](m)
		require.NoError(t, err)
		v.Trees = append(v.Trees, tree)
		m.NumTree = 1
		return m
	}

	t.Run("Valid model", func(t *testing.T) {
		require.NoError(t, newModel(t).Validate())
	})

	t.Run("No container", func(t *testing.T) {
		m := newModel(t)
		m.Variant = nil
		require.Error(t, m.Validate())
	})

	t.Run("Tree count mismatch", func(t *testing.T) {
		m := newModel(t)
		m.NumTree = 7
		require.ErrorContains(t, m.Validate(), "tree count mismatch")
	})

	t.Run("Type pair mismatch", func(t *testing.T) {
		m := newModel(t)
		m.LeafOutputType = TypeUInt32
		require.ErrorContains(t, m.Validate(), "type pair mismatch")
	})

	t.Run("Broken tree surfaces with index", func(t *testing.T) {
		m := newModel(t)
		v, err := TreesOf[float32, float32](m)
		require.NoError(t, err)
		v.Trees[0].NumNodes = 9
		require.ErrorContains(t, m.Validate(), "tree 0")
	})
}

func TestUpgradeLegacy(t *testing.T) {
	m, err := New(TypeFloat32, TypeFloat32)
	require.NoError(t, err)

	t.Run("No-op without legacy records", func(t *testing.T) {
		require.NoError(t, m.UpgradeLegacy())
	})

	t.Run("Unsupported with legacy records", func(t *testing.T) {
		m.Legacy = &LegacyHeader{TaskType: 1}
		require.ErrorIs(t, m.UpgradeLegacy(), ErrLegacyConversionUnsupported)
		require.True(t, m.IsLegacy())
	})
}
