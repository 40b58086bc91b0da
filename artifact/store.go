package artifact

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when an artifact does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing immutable model artifacts.
type Store interface {
	// Put writes an artifact atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Open opens an artifact for sequential reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes an artifact.
	Delete(ctx context.Context, name string) error
	// List returns the artifact names under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
