package serializer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// streamWriter writes fields as raw little-endian bytes in a fixed,
// implicitly ordered layout. Arrays and optional fields carry a uint64
// length prefix; everything else is sized by its type.
type streamWriter struct {
	w io.Writer
}

func (s *streamWriter) writeField(_ Layout, data []byte) error {
	_, err := s.w.Write(data)
	return err
}

func (s *streamWriter) writeArrayField(_ Layout, n int, data []byte) error {
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(n))
	if _, err := s.w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := s.w.Write(data)
	return err
}

func (s *streamWriter) writeOptionalField(data []byte) error {
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(data)))
	if _, err := s.w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := s.w.Write(data)
	return err
}

// streamReader is the reading counterpart of streamWriter.
type streamReader struct {
	r io.Reader
}

func (s *streamReader) readField(layout Layout) ([]byte, error) {
	buf := make([]byte, layout.Size)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, fmt.Errorf("reading %s field: %w", layout.Spec, wrapEOF(err))
	}
	return buf, nil
}

func (s *streamReader) readArrayField(layout Layout) (int, []byte, error) {
	var prefix [8]byte
	if _, err := io.ReadFull(s.r, prefix[:]); err != nil {
		return 0, nil, fmt.Errorf("reading %s array length: %w", layout.Spec, wrapEOF(err))
	}
	n := binary.LittleEndian.Uint64(prefix[:])
	if n > maxArrayElems {
		return 0, nil, fmt.Errorf("array length %d exceeds limit", n)
	}
	buf := make([]byte, int(n)*layout.Size)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return 0, nil, fmt.Errorf("reading %s array body: %w", layout.Spec, wrapEOF(err))
	}
	return int(n), buf, nil
}

func (s *streamReader) skipField() error {
	var prefix [8]byte
	if _, err := io.ReadFull(s.r, prefix[:]); err != nil {
		return fmt.Errorf("reading optional field length: %w", wrapEOF(err))
	}
	n := binary.LittleEndian.Uint64(prefix[:])
	if _, err := io.CopyN(io.Discard, s.r, int64(n)); err != nil {
		return fmt.Errorf("skipping optional field of %d bytes: %w", n, wrapEOF(err))
	}
	return nil
}

// maxArrayElems bounds a single decoded array so a corrupt length prefix
// cannot drive an absurd allocation.
const maxArrayElems = 1 << 32

func wrapEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %w", ErrUnexpectedEnd, err)
	}
	return err
}
