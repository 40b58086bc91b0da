package model

// Operator is the comparison operator of a numerical split.
type Operator uint8

const (
	OpNone Operator = iota
	OpEQ
	OpLT
	OpLE
	OpGT
	OpGE
)

func (o Operator) String() string {
	switch o {
	case OpEQ:
		return "=="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	default:
		return ""
	}
}

// SplitFeatureType tags the kind of split a node performs.
type SplitFeatureType uint8

const (
	SplitNone SplitFeatureType = iota
	SplitNumerical
	SplitCategorical
)

// defaultLeftBit is packed into the top bit of SIndex.
const defaultLeftBit = uint32(1) << 31

// Node is a single tree node. Leaf nodes have CLeft == CRight == -1; the
// value slot then holds the leaf output, otherwise the split threshold.
type Node[T Threshold, L LeafOutput] struct {
	CLeft  int32
	CRight int32
	// SIndex packs the split feature index with the default-branch
	// direction in the top bit.
	SIndex    uint32
	Threshold T
	LeafValue L
	DataCount uint64
	SumHess   float64
	Gain      float64
	SplitType SplitFeatureType
	Cmp       Operator
	// Presence flags for the optional training statistics above.
	DataCountPresent bool
	SumHessPresent   bool
	GainPresent      bool
	// CategoriesListRightChild records whether the node's matching-category
	// list belongs to the right child (true) or the left child (false).
	CategoriesListRightChild bool
}

// IsLeaf reports whether the node is a leaf.
func (n *Node[T, L]) IsLeaf() bool { return n.CLeft == -1 }

// SplitIndex returns the split feature index without the packed
// default-direction bit.
func (n *Node[T, L]) SplitIndex() uint32 { return n.SIndex &^ defaultLeftBit }

// DefaultLeft reports whether a missing value is routed to the left child.
func (n *Node[T, L]) DefaultLeft() bool { return n.SIndex&defaultLeftBit != 0 }

// PackSplitIndex combines a split feature index with the default-branch
// direction into the packed SIndex representation.
func PackSplitIndex(featureIndex uint32, defaultLeft bool) uint32 {
	s := featureIndex &^ defaultLeftBit
	if defaultLeft {
		s |= defaultLeftBit
	}
	return s
}
