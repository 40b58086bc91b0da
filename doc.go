// Package treekit persists and restores decision-tree-ensemble models as
// portable binary artifacts.
//
// A model round-trips bit-exactly through either of two transports: a flat
// byte stream or an in-memory sequence of tagged frames. The format is
// versioned; artifacts from older minor versions load silently, artifacts
// from newer minor versions load with a warning and unknown trailing
// fields skipped, and the frozen 3.9 legacy checkpoint loads through a
// dedicated migration path.
//
// # Quick Start
//
// Build a model and save it:
//
//	m, _ := model.New(model.TypeFloat32, model.TypeFloat32)
//	m.NumFeature = 10
//	m.TaskType = model.TaskRegressor
//
//	b := model.NewTreeBuilder[float32, float32]()
//	root := b.AddNode()
//	left, right := b.AddNode(), b.AddNode()
//	b.NumericalSplit(root, 0, true, model.OpLT, 0.5, left, right)
//	b.Leaf(left, -1.0)
//	b.Leaf(right, 1.0)
//	tree, _ := b.Build()
//
//	trees, _ := model.TreesOf[float32, float32](m)
//	trees.Trees = append(trees.Trees, tree)
//
//	_ = treekit.SaveFile("model.tkt", m, treekit.WithCompression(treekit.CompressionZstd))
//
// Load it back:
//
//	m, err := treekit.LoadFile("model.tkt")
//
// Artifacts can also live in object storage via the artifact package and
// its S3/MinIO backends.
package treekit
