package treekit

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/treekit/artifact"
	"github.com/hupe1980/treekit/model"
	"github.com/hupe1980/treekit/serializer"
)

// Container header for compressed artifacts. An uncompressed Save writes
// the bare artifact stream, so a bare artifact and a compressed container
// are distinguishable by the magic alone.
var containerMagic = [4]byte{'T', 'K', 'T', '1'}

const containerVersion = 1

// Save encodes a model onto w via the byte-stream transport, optionally
// wrapped in a compressed container.
func Save(w io.Writer, m *model.Model, optFns ...Option) error {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.compression == CompressionNone {
		err := serializer.Write(w, m)
		opts.logger.LogSave(context.Background(), m.NumTree, err)
		return err
	}

	header := []byte{containerMagic[0], containerMagic[1], containerMagic[2], containerMagic[3],
		containerVersion, byte(opts.compression)}
	if _, err := w.Write(header); err != nil {
		return err
	}

	var err error
	switch opts.compression {
	case CompressionZstd:
		level := zstd.EncoderLevelFromZstd(opts.compressionLevel)
		enc, encErr := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
		if encErr != nil {
			return fmt.Errorf("creating zstd writer: %w", encErr)
		}
		if err = serializer.Write(enc, m); err != nil {
			enc.Close()
		} else {
			err = enc.Close()
		}
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if err = serializer.Write(zw, m); err != nil {
			zw.Close()
		} else {
			err = zw.Close()
		}
	default:
		return &ErrUnknownCompression{Tag: byte(opts.compression)}
	}
	opts.logger.LogSave(context.Background(), m.NumTree, err)
	return err
}

// Load decodes a model from r. A compressed container is detected from its
// magic; anything else is read as a bare artifact stream.
func Load(r io.Reader, optFns ...Option) (*model.Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	br := bufio.NewReader(r)
	peek, err := br.Peek(len(containerMagic))
	if err != nil && len(peek) < len(containerMagic) {
		// Too short for even a magic; let the stream decoder produce the
		// canonical truncation error.
		return loadStream(br, &opts)
	}

	if !bytes.Equal(peek, containerMagic[:]) {
		return loadStream(br, &opts)
	}

	header := make([]byte, len(containerMagic)+2)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadContainer, err)
	}
	if header[4] != containerVersion {
		return nil, fmt.Errorf("%w: container version %d", ErrBadContainer, header[4])
	}

	switch Compression(header[5]) {
	case CompressionZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer dec.Close()
		return loadStream(dec, &opts)
	case CompressionLZ4:
		return loadStream(lz4.NewReader(br), &opts)
	default:
		return nil, &ErrUnknownCompression{Tag: header[5]}
	}
}

func loadStream(r io.Reader, opts *options) (*model.Model, error) {
	m, err := serializer.Read(r, serializer.WithLogger(opts.logger.Logger))
	if err != nil {
		opts.logger.LogLoad(context.Background(), 0, false, err)
		return nil, err
	}
	opts.logger.LogLoad(context.Background(), m.NumTree, m.IsLegacy(), nil)
	return m, nil
}

// Frames encodes a model as a sequence of tagged frames for zero-copy
// in-process handoff. Compression options do not apply to frames.
func Frames(m *model.Model) ([]serializer.Frame, error) {
	return serializer.Frames(m)
}

// FromFrames decodes a model from a frame sequence.
func FromFrames(frames []serializer.Frame, optFns ...Option) (*model.Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	m, err := serializer.FromFrames(frames, serializer.WithLogger(opts.logger.Logger))
	if err != nil {
		opts.logger.LogLoad(context.Background(), 0, false, err)
		return nil, err
	}
	opts.logger.LogLoad(context.Background(), m.NumTree, m.IsLegacy(), nil)
	return m, nil
}

// SaveFile writes a model artifact to a file, atomically via temp+rename.
func SaveFile(path string, m *model.Model, optFns ...Option) error {
	var buf bytes.Buffer
	if err := Save(&buf, m, optFns...); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o640); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// LoadFile reads a model artifact from a file.
func LoadFile(path string, optFns ...Option) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, optFns...)
}

// SaveTo serializes a model and stores it as a named artifact.
func SaveTo(ctx context.Context, store artifact.Store, name string, m *model.Model, optFns ...Option) error {
	var buf bytes.Buffer
	if err := Save(&buf, m, optFns...); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}

// LoadFrom reads a named artifact from a store and decodes it.
func LoadFrom(ctx context.Context, store artifact.Store, name string, optFns ...Option) (*model.Model, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Load(rc, optFns...)
}

// LoadAll decodes several named artifacts concurrently. Distinct models on
// distinct transports carry no shared mutable state, so the loads are
// independent.
func LoadAll(ctx context.Context, store artifact.Store, names []string, optFns ...Option) ([]*model.Model, error) {
	models := make([]*model.Model, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			m, err := LoadFrom(ctx, store, name, optFns...)
			if err != nil {
				return fmt.Errorf("loading %q: %w", name, err)
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}

// SaveAll stores several models concurrently under their given names.
func SaveAll(ctx context.Context, store artifact.Store, models map[string]*model.Model, optFns ...Option) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, m := range models {
		name, m := name, m
		g.Go(func() error {
			if err := SaveTo(ctx, store, name, m, optFns...); err != nil {
				return fmt.Errorf("saving %q: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
