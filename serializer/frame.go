package serializer

import (
	"fmt"
)

// Frame is one length-tagged unit of the frame transport. The tag carries
// the layout descriptor and element geometry so the reader can verify the
// wire contract before touching the payload. Data aliases the encoder's
// buffer; the handoff is zero-copy.
type Frame struct {
	Format   string
	ItemSize int
	NItems   int
	Data     []byte
}

// optFieldFormat tags a frame holding an opaque optional field. Readers
// never interpret such frames; they only skip them.
const optFieldFormat = "B"

type frameWriter struct {
	frames []Frame
}

func (w *frameWriter) writeField(layout Layout, data []byte) error {
	w.frames = append(w.frames, Frame{
		Format:   layout.Spec,
		ItemSize: layout.Size,
		NItems:   1,
		Data:     data,
	})
	return nil
}

func (w *frameWriter) writeArrayField(layout Layout, n int, data []byte) error {
	w.frames = append(w.frames, Frame{
		Format:   layout.Spec,
		ItemSize: layout.Size,
		NItems:   n,
		Data:     data,
	})
	return nil
}

func (w *frameWriter) writeOptionalField(data []byte) error {
	w.frames = append(w.frames, Frame{
		Format:   optFieldFormat,
		ItemSize: 1,
		NItems:   len(data),
		Data:     data,
	})
	return nil
}

type frameReader struct {
	frames []Frame
	next   int
}

func (r *frameReader) take() (Frame, error) {
	if r.next >= len(r.frames) {
		return Frame{}, fmt.Errorf("frame transport: %w", ErrUnexpectedEnd)
	}
	f := r.frames[r.next]
	r.next++
	return f, nil
}

func (r *frameReader) readField(layout Layout) ([]byte, error) {
	f, err := r.take()
	if err != nil {
		return nil, err
	}
	if f.Format != layout.Spec || f.ItemSize != layout.Size {
		return nil, &LayoutMismatchError{Want: layout.Spec, Got: f.Format}
	}
	if f.NItems != 1 || len(f.Data) != layout.Size {
		return nil, fmt.Errorf("frame holds %d items of %d bytes, want one %s field",
			f.NItems, len(f.Data), layout.Spec)
	}
	return f.Data, nil
}

func (r *frameReader) readArrayField(layout Layout) (int, []byte, error) {
	f, err := r.take()
	if err != nil {
		return 0, nil, err
	}
	if f.Format != layout.Spec || f.ItemSize != layout.Size {
		return 0, nil, &LayoutMismatchError{Want: layout.Spec, Got: f.Format}
	}
	if len(f.Data) != f.NItems*layout.Size {
		return 0, nil, fmt.Errorf("frame payload %d bytes, want %d items of %d",
			len(f.Data), f.NItems, layout.Size)
	}
	return f.NItems, f.Data, nil
}

func (r *frameReader) skipField() error {
	_, err := r.take()
	return err
}
