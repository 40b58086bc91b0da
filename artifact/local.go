package artifact

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/time/rate"
)

// LocalStore implements Store on the local filesystem. Writes go through a
// temp file and rename, so a crash never leaves a half-written artifact
// behind under its final name.
type LocalStore struct {
	root    string
	limiter *rate.Limiter
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithWriteRateLimit throttles Put to roughly bytesPerSec. Useful when
// artifact writes share a disk with latency-sensitive work.
func WithWriteRateLimit(bytesPerSec int) LocalOption {
	return func(s *LocalStore) {
		s.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
	}
}

// NewLocalStore creates a LocalStore rooted at the given directory.
func NewLocalStore(root string, optFns ...LocalOption) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	s := &LocalStore{root: root}
	for _, fn := range optFns {
		fn(s)
	}
	return s, nil
}

// rateChunk is the granularity at which throttled writes wait on the
// limiter.
const rateChunk = 64 * 1024

func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	path := filepath.Join(s.root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	for len(data) > 0 {
		chunk := data
		if len(chunk) > rateChunk {
			chunk = chunk[:rateChunk]
		}
		if s.limiter != nil {
			if err := s.limiter.WaitN(ctx, len(chunk)); err != nil {
				tmp.Close()
				return err
			}
		}
		if _, err := tmp.Write(chunk); err != nil {
			tmp.Close()
			return err
		}
		data = data[len(chunk):]
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
