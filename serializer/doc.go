// Package serializer implements the versioned binary protocol that turns a
// model.Model into a portable artifact and back.
//
// Two transport backends carry the same logical field sequence: a sequence
// of length-tagged frames for zero-copy in-process handoff, and a flat byte
// stream over io.Writer/io.Reader. Composite fields are encoded against
// explicit layout descriptors; the descriptor is a byte-for-byte contract
// between writer and reader, and a mismatch aborts the decode.
//
// The deserializer negotiates the stored version triple before reading any
// body: artifacts from the same major version are accepted (with a warning
// when the minor version is newer), the frozen 3.9 legacy checkpoint is
// parsed through the legacy layout, and anything else is rejected.
package serializer
