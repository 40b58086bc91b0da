// Package model defines the in-memory representation of a decision-tree
// ensemble: the Model, its Trees and Nodes, and the closed set of numeric
// type pairs a model may be instantiated with.
//
// A model is parameterized by a (threshold type, leaf-output type) pair.
// The supported pairs are enumerated explicitly and dispatched through a
// tagged union (Variant) rather than reflection, so every consumer can
// switch exhaustively over the concrete instantiations.
package model
