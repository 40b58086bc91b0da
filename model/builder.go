package model

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// TreeBuilder assembles a Tree node by node and seals it into the flat
// parallel-array representation. Matching-category sets accumulate in
// Roaring bitmaps, so duplicates collapse and the emitted lists are sorted.
type TreeBuilder[T Threshold, L LeafOutput] struct {
	nodes          []Node[T, L]
	leafVectors    [][]L
	categories     []*roaring.Bitmap
	hasCategorical bool
}

// NewTreeBuilder creates an empty tree builder.
func NewTreeBuilder[T Threshold, L LeafOutput]() *TreeBuilder[T, L] {
	return &TreeBuilder[T, L]{}
}

// AddNode appends a fresh node and returns its index. The node starts as a
// leaf with zero output; configure it with NumericalSplit, CategoricalSplit,
// Leaf or LeafVector.
func (b *TreeBuilder[T, L]) AddNode() int {
	b.nodes = append(b.nodes, Node[T, L]{CLeft: -1, CRight: -1})
	b.leafVectors = append(b.leafVectors, nil)
	b.categories = append(b.categories, nil)
	return len(b.nodes) - 1
}

// NumNodes returns the number of nodes added so far.
func (b *TreeBuilder[T, L]) NumNodes() int { return len(b.nodes) }

// NumericalSplit turns node nid into a numerical split.
func (b *TreeBuilder[T, L]) NumericalSplit(nid int, featureIndex uint32, defaultLeft bool, op Operator, threshold T, left, right int) {
	n := &b.nodes[nid]
	n.CLeft = int32(left)
	n.CRight = int32(right)
	n.SIndex = PackSplitIndex(featureIndex, defaultLeft)
	n.Threshold = threshold
	n.Cmp = op
	n.SplitType = SplitNumerical
}

// CategoricalSplit turns node nid into a categorical split. The categories
// route to the right child when categoriesRightChild is true, otherwise to
// the left child.
func (b *TreeBuilder[T, L]) CategoricalSplit(nid int, featureIndex uint32, defaultLeft bool, categories []uint32, categoriesRightChild bool, left, right int) {
	n := &b.nodes[nid]
	n.CLeft = int32(left)
	n.CRight = int32(right)
	n.SIndex = PackSplitIndex(featureIndex, defaultLeft)
	n.SplitType = SplitCategorical
	n.CategoriesListRightChild = categoriesRightChild

	rb := roaring.New()
	rb.AddMany(categories)
	b.categories[nid] = rb
	b.hasCategorical = true
}

// Leaf turns node nid into a leaf with a scalar output.
func (b *TreeBuilder[T, L]) Leaf(nid int, value L) {
	n := &b.nodes[nid]
	n.CLeft = -1
	n.CRight = -1
	n.LeafValue = value
	n.SplitType = SplitNone
	n.Cmp = OpNone
}

// LeafVector turns node nid into a leaf predicting a vector of outputs.
func (b *TreeBuilder[T, L]) LeafVector(nid int, values []L) {
	b.Leaf(nid, 0)
	vec := make([]L, len(values))
	copy(vec, values)
	b.leafVectors[nid] = vec
}

// Stats attaches optional training statistics to node nid.
func (b *TreeBuilder[T, L]) Stats(nid int, dataCount uint64, sumHess, gain float64) {
	n := &b.nodes[nid]
	n.DataCount = dataCount
	n.DataCountPresent = true
	n.SumHess = sumHess
	n.SumHessPresent = true
	n.Gain = gain
	n.GainPresent = true
}

// Build seals the builder into a Tree, laying the per-node leaf vectors and
// category sets out as flat arrays with contiguous per-node windows.
func (b *TreeBuilder[T, L]) Build() (Tree[T, L], error) {
	n := len(b.nodes)
	t := Tree[T, L]{
		NumNodes:                int32(n),
		HasCategoricalSplit:     b.hasCategorical,
		Nodes:                   make([]Node[T, L], n),
		LeafVectorBegin:         make([]uint64, n),
		LeafVectorEnd:           make([]uint64, n),
		MatchingCategoriesBegin: make([]uint64, n),
		MatchingCategoriesEnd:   make([]uint64, n),
	}
	copy(t.Nodes, b.nodes)

	for i := 0; i < n; i++ {
		node := &b.nodes[i]
		if !node.IsLeaf() {
			if int(node.CLeft) >= n || int(node.CRight) >= n || node.CLeft < 0 || node.CRight < 0 {
				return Tree[T, L]{}, fmt.Errorf("node %d references child out of range", i)
			}
		}

		t.LeafVectorBegin[i] = uint64(len(t.LeafVector))
		t.LeafVector = append(t.LeafVector, b.leafVectors[i]...)
		t.LeafVectorEnd[i] = uint64(len(t.LeafVector))

		t.MatchingCategoriesBegin[i] = uint64(len(t.MatchingCategories))
		if rb := b.categories[i]; rb != nil {
			t.MatchingCategories = append(t.MatchingCategories, rb.ToArray()...)
		}
		t.MatchingCategoriesEnd[i] = uint64(len(t.MatchingCategories))
	}

	if err := t.Validate(); err != nil {
		return Tree[T, L]{}, err
	}
	return t, nil
}
