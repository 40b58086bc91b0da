package treekit

import (
	"errors"
	"fmt"
)

var (
	// ErrBadContainer is returned when an artifact container header is
	// present but malformed or from an unsupported container version.
	ErrBadContainer = errors.New("malformed artifact container")
)

// ErrUnknownCompression indicates a container compressed with a codec this
// build does not know.
type ErrUnknownCompression struct {
	Tag uint8
}

func (e *ErrUnknownCompression) Error() string {
	return fmt.Sprintf("unknown container compression tag: %d", e.Tag)
}
