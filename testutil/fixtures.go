package testutil

import (
	"github.com/hupe1980/treekit/model"
)

// RandomTree builds a random binary tree with the given number of leaves.
// Roughly a third of the splits are categorical. The returned tree always
// validates.
func RandomTree[T model.Threshold, L model.LeafOutput](rng *RNG, numFeature int, numLeaf int) model.Tree[T, L] {
	if numLeaf < 1 {
		numLeaf = 1
	}

	b := model.NewTreeBuilder[T, L]()
	root := b.AddNode()

	// Leaves eligible for expansion into a split.
	frontier := []int{root}
	for len(frontier) < numLeaf {
		pick := rng.Intn(len(frontier))
		nid := frontier[pick]
		frontier = append(frontier[:pick], frontier[pick+1:]...)

		left := b.AddNode()
		right := b.AddNode()
		feature := uint32(rng.Intn(numFeature))
		defaultLeft := rng.Intn(2) == 0

		if rng.Intn(3) == 0 {
			cats := make([]uint32, 1+rng.Intn(4))
			for i := range cats {
				cats[i] = uint32(rng.Intn(16))
			}
			b.CategoricalSplit(nid, feature, defaultLeft, cats, rng.Intn(2) == 0, left, right)
		} else {
			b.NumericalSplit(nid, feature, defaultLeft, model.OpLT, randomThreshold[T](rng), left, right)
		}
		if rng.Intn(4) == 0 {
			b.Stats(nid, rng.Uint64()%10000, rng.Float64(), rng.Float64())
		}

		frontier = append(frontier, left, right)
	}

	for _, nid := range frontier {
		b.Leaf(nid, randomLeaf[L](rng))
	}

	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// RandomModel builds a random regressor model over the given type pair with
// the requested tree count.
func RandomModel[T model.Threshold, L model.LeafOutput](rng *RNG, numTree, numFeature int) *model.Model {
	pair := (&model.Trees[T, L]{}).TypePair()
	m, err := model.New(pair.Threshold, pair.LeafOutput)
	if err != nil {
		panic(err)
	}
	m.NumFeature = int32(numFeature)

	v, err := model.TreesOf[T, L](m)
	if err != nil {
		panic(err)
	}
	for i := 0; i < numTree; i++ {
		v.Trees = append(v.Trees, RandomTree[T, L](rng, numFeature, 2+rng.Intn(6)))
	}
	m.NumTree = uint64(numTree)

	return m
}

func randomThreshold[T model.Threshold](rng *RNG) T {
	var t T
	switch any(t).(type) {
	case float32:
		return T(rng.Float32())
	default:
		return T(rng.Float64())
	}
}

func randomLeaf[L model.LeafOutput](rng *RNG) L {
	var l L
	switch any(l).(type) {
	case uint32:
		return L(rng.Uint32() % 100)
	case float32:
		return L(rng.Float32())
	default:
		return L(rng.Float64())
	}
}
