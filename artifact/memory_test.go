package artifact

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Put and Open", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "m", []byte("payload")))

		rc, err := store.Open(ctx, "m")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, []byte("payload"), data)
	})

	t.Run("Open missing", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.Open(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Put copies its input", func(t *testing.T) {
		store := NewMemoryStore()
		data := []byte("abc")
		require.NoError(t, store.Put(ctx, "m", data))
		data[0] = 'z'

		rc, err := store.Open(ctx, "m")
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, []byte("abc"), got)
	})

	t.Run("Delete", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "m", []byte("x")))
		require.NoError(t, store.Delete(ctx, "m"))

		_, err := store.Open(ctx, "m")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List with prefix", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "a/1", []byte("x")))
		require.NoError(t, store.Put(ctx, "a/2", []byte("x")))
		require.NoError(t, store.Put(ctx, "b/1", []byte("x")))

		names, err := store.List(ctx, "a/")
		require.NoError(t, err)
		require.Equal(t, []string{"a/1", "a/2"}, names)
	})

	t.Run("Concurrent access", func(t *testing.T) {
		store := NewMemoryStore()
		errs := make(chan error, 32)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.Put(ctx, "shared", []byte("x"))
				rc, err := store.Open(ctx, "shared")
				if err == nil {
					rc.Close()
				}
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
	})
}
