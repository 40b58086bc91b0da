package artifact

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Put and Open", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "model.bin", []byte("payload")))

		rc, err := store.Open(ctx, "model.bin")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, []byte("payload"), data)
	})

	t.Run("Put overwrites", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "m", []byte("v1")))
		require.NoError(t, store.Put(ctx, "m", []byte("v2")))

		rc, err := store.Open(ctx, "m")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, []byte("v2"), data)
	})

	t.Run("Nested names", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "prod/v1/model.bin", []byte("x")))

		names, err := store.List(ctx, "prod/")
		require.NoError(t, err)
		require.Equal(t, []string{"prod/v1/model.bin"}, names)
	})

	t.Run("Open missing", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Open(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "m", []byte("x")))
		require.NoError(t, store.Delete(ctx, "m"))
		require.NoError(t, store.Delete(ctx, "m"))

		_, err = store.Open(ctx, "m")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List filters by prefix and sorts", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "b", []byte("x")))
		require.NoError(t, store.Put(ctx, "a", []byte("x")))
		require.NoError(t, store.Put(ctx, "other", []byte("x")))

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "other"}, names)

		names, err = store.List(ctx, "o")
		require.NoError(t, err)
		require.Equal(t, []string{"other"}, names)
	})

	t.Run("List skips temp files", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewLocalStore(dir)
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "m", []byte("x")))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-123"), []byte("junk"), 0o640))

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"m"}, names)
	})

	t.Run("Throttled write", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir(), WithWriteRateLimit(1<<20))
		require.NoError(t, err)

		payload := make([]byte, 256*1024)
		require.NoError(t, store.Put(ctx, "big", payload))

		rc, err := store.Open(ctx, "big")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Len(t, data, len(payload))
	})
}
