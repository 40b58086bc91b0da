package serializer

// fieldWriter is the writer side of a transport backend. Each call emits
// exactly one transport unit: a tagged frame on the frame transport, raw
// bytes in implicit order on the stream transport.
type fieldWriter interface {
	// writeField emits one field (primitive or composite) whose encoded
	// bytes are data and whose shape is layout.
	writeField(layout Layout, data []byte) error
	// writeArrayField emits one length-prefixed array of n elements.
	writeArrayField(layout Layout, n int, data []byte) error
	// writeOptionalField emits one skippable field with opaque content.
	// Current-version writers never call this outside of tests; it exists
	// so newer minor versions can populate the reserved extension slots.
	writeOptionalField(data []byte) error
}

// fieldReader is the reader side of a transport backend.
type fieldReader interface {
	// readField consumes one field and returns its encoded bytes. The
	// frame transport verifies the layout descriptor against the frame
	// tag; a disagreement is fatal.
	readField(layout Layout) ([]byte, error)
	// readArrayField consumes one array field, returning the element
	// count and the raw element bytes.
	readArrayField(layout Layout) (n int, data []byte, err error)
	// skipField consumes and discards exactly one field-worth of data
	// without interpreting its content.
	skipField() error
}
