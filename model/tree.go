package model

import (
	"fmt"
)

// Tree is one member of an ensemble. The leaf-vector and matching-category
// values of all nodes are stored in flat arrays; the Begin/End arrays give
// each node its contiguous window into them.
type Tree[T Threshold, L LeafOutput] struct {
	// NumNodes is the declared node count. It must equal len(Nodes);
	// every decode checks this.
	NumNodes            int32
	HasCategoricalSplit bool
	Nodes               []Node[T, L]

	LeafVector      []L
	LeafVectorBegin []uint64
	LeafVectorEnd   []uint64

	MatchingCategories      []uint32
	MatchingCategoriesBegin []uint64
	MatchingCategoriesEnd   []uint64

	// Reserved extension slots. Always zero at the current version; newer
	// minor versions may populate them and older readers skip the payload.
	NumOptFieldPerTree int32
	NumOptFieldPerNode int32
}

// LeafVectorOf returns the leaf-vector window of one node.
func (t *Tree[T, L]) LeafVectorOf(nid int) []L {
	return t.LeafVector[t.LeafVectorBegin[nid]:t.LeafVectorEnd[nid]]
}

// MatchingCategoriesOf returns the matching-category window of one node.
func (t *Tree[T, L]) MatchingCategoriesOf(nid int) []uint32 {
	return t.MatchingCategories[t.MatchingCategoriesBegin[nid]:t.MatchingCategoriesEnd[nid]]
}

// Validate checks the structural invariants that must hold after every
// decode: the declared node count matches the node array, and the range
// arrays partition their value arrays into non-overlapping, non-decreasing
// per-node windows.
func (t *Tree[T, L]) Validate() error {
	n := len(t.Nodes)
	if int32(n) != t.NumNodes {
		return fmt.Errorf("node count mismatch: declared %d, actual %d", t.NumNodes, n)
	}
	if err := validateRanges("leaf vector", t.LeafVectorBegin, t.LeafVectorEnd, uint64(len(t.LeafVector)), n); err != nil {
		return err
	}
	if err := validateRanges("matching categories", t.MatchingCategoriesBegin, t.MatchingCategoriesEnd, uint64(len(t.MatchingCategories)), n); err != nil {
		return err
	}
	return nil
}

func validateRanges(what string, begin, end []uint64, total uint64, numNodes int) error {
	if len(begin) != numNodes || len(end) != numNodes {
		return fmt.Errorf("%s range arrays sized %d/%d, want %d", what, len(begin), len(end), numNodes)
	}
	for i := 0; i < numNodes; i++ {
		if begin[i] > end[i] {
			return fmt.Errorf("%s range of node %d decreasing: [%d, %d)", what, i, begin[i], end[i])
		}
		if end[i] > total {
			return fmt.Errorf("%s range of node %d exceeds array length %d", what, i, total)
		}
		if i+1 < numNodes && end[i] > begin[i+1] {
			return fmt.Errorf("%s range of node %d overlaps node %d", what, i, i+1)
		}
	}
	return nil
}
