package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackSplitIndex(t *testing.T) {
	t.Run("Default right", func(t *testing.T) {
		n := Node[float32, float32]{SIndex: PackSplitIndex(42, false)}
		require.Equal(t, uint32(42), n.SplitIndex())
		require.False(t, n.DefaultLeft())
	})

	t.Run("Default left", func(t *testing.T) {
		n := Node[float32, float32]{SIndex: PackSplitIndex(42, true)}
		require.Equal(t, uint32(42), n.SplitIndex())
		require.True(t, n.DefaultLeft())
	})

	t.Run("Top bit of feature index is masked", func(t *testing.T) {
		n := Node[float32, float32]{SIndex: PackSplitIndex(1<<31|7, false)}
		require.Equal(t, uint32(7), n.SplitIndex())
		require.False(t, n.DefaultLeft())
	})
}

func TestNodeIsLeaf(t *testing.T) {
	leaf := Node[float32, float32]{CLeft: -1, CRight: -1}
	require.True(t, leaf.IsLeaf())

	split := Node[float32, float32]{CLeft: 1, CRight: 2}
	require.False(t, split.IsLeaf())
}
