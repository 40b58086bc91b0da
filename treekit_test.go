package treekit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/treekit/artifact"
	"github.com/hupe1980/treekit/model"
	"github.com/hupe1980/treekit/testutil"
)

func testModel(t *testing.T, seed int64) *model.Model {
	t.Helper()
	return testutil.RandomModel[float32, float32](testutil.NewRNG(seed), 4, 12)
}

func TestSaveLoad(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"Uncompressed", nil},
		{"Zstd", []Option{WithCompression(CompressionZstd)}},
		{"Zstd high level", []Option{WithCompression(CompressionZstd), WithCompressionLevel(9)}},
		{"LZ4", []Option{WithCompression(CompressionLZ4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, 1)

			var buf bytes.Buffer
			require.NoError(t, Save(&buf, m, tt.opts...))

			got, err := Load(&buf)
			require.NoError(t, err)
			require.Equal(t, m, got)
		})
	}
}

func TestSaveUncompressedIsBareStream(t *testing.T) {
	m := testModel(t, 2)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, m))
	require.False(t, bytes.HasPrefix(buf.Bytes(), containerMagic[:]))
}

func TestSaveCompressedCarriesContainerHeader(t *testing.T) {
	m := testModel(t, 3)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, m, WithCompression(CompressionZstd)))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, containerMagic[:]))
	require.Equal(t, byte(containerVersion), raw[4])
	require.Equal(t, byte(CompressionZstd), raw[5])
}

func TestLoadBadContainer(t *testing.T) {
	t.Run("Unsupported container version", func(t *testing.T) {
		raw := append([]byte{}, containerMagic[:]...)
		raw = append(raw, 2, byte(CompressionZstd))

		_, err := Load(bytes.NewReader(raw))
		require.ErrorIs(t, err, ErrBadContainer)
	})

	t.Run("Truncated header", func(t *testing.T) {
		raw := append([]byte{}, containerMagic[:]...)
		raw = append(raw, containerVersion)

		_, err := Load(bytes.NewReader(raw))
		require.ErrorIs(t, err, ErrBadContainer)
	})

	t.Run("Unknown compression tag", func(t *testing.T) {
		raw := append([]byte{}, containerMagic[:]...)
		raw = append(raw, containerVersion, 9)

		_, err := Load(bytes.NewReader(raw))
		var ucErr *ErrUnknownCompression
		require.ErrorAs(t, err, &ucErr)
		require.Equal(t, uint8(9), ucErr.Tag)
	})
}

func TestFramesRoundTrip(t *testing.T) {
	m := testModel(t, 4)

	frames, err := Frames(m)
	require.NoError(t, err)

	got, err := FromFrames(frames)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestSaveLoadFile(t *testing.T) {
	m := testModel(t, 5)
	path := filepath.Join(t.TempDir(), "model.tkt")

	require.NoError(t, SaveFile(path, m, WithCompression(CompressionLZ4)))

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, m, got)

	// No temp file left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.tkt"))
	require.Error(t, err)
}

func TestSaveToLoadFrom(t *testing.T) {
	ctx := context.Background()
	store := artifact.NewMemoryStore()
	m := testModel(t, 6)

	require.NoError(t, SaveTo(ctx, store, "prod/model.tkt", m, WithCompression(CompressionZstd)))

	got, err := LoadFrom(ctx, store, "prod/model.tkt")
	require.NoError(t, err)
	require.Equal(t, m, got)

	_, err = LoadFrom(ctx, store, "prod/other.tkt")
	require.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestSaveAllLoadAll(t *testing.T) {
	ctx := context.Background()
	store := artifact.NewMemoryStore()

	models := map[string]*model.Model{
		"a.tkt": testModel(t, 10),
		"b.tkt": testModel(t, 11),
		"c.tkt": testModel(t, 12),
	}
	require.NoError(t, SaveAll(ctx, store, models))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"a.tkt", "b.tkt", "c.tkt"}, names)

	loaded, err := LoadAll(ctx, store, names)
	require.NoError(t, err)
	require.Len(t, loaded, len(names))
	for i, name := range names {
		require.Equal(t, models[name], loaded[i], "model %s", name)
	}
}

func TestLoadAllMissingArtifact(t *testing.T) {
	ctx := context.Background()
	store := artifact.NewMemoryStore()
	require.NoError(t, SaveTo(ctx, store, "a.tkt", testModel(t, 13)))

	_, err := LoadAll(ctx, store, []string{"a.tkt", "missing.tkt"})
	require.ErrorIs(t, err, artifact.ErrNotFound)
	require.Contains(t, err.Error(), "missing.tkt")
}

func TestCompressionString(t *testing.T) {
	require.Equal(t, "none", CompressionNone.String())
	require.Equal(t, "zstd", CompressionZstd.String())
	require.Equal(t, "lz4", CompressionLZ4.String())
	require.Equal(t, "unknown", Compression(99).String())
}
