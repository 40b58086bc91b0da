// Package testutil provides shared helpers for treekit tests: a
// thread-safe seeded RNG and generators for random tree-ensemble models.
package testutil
