package serializer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEnd indicates a truncated artifact: the transport ran
	// out of data mid-field.
	ErrUnexpectedEnd = errors.New("unexpected end of artifact")
)

// LayoutMismatchError indicates that writer and reader disagree on the
// shape of a composite field. This is a format violation, never recoverable.
type LayoutMismatchError struct {
	Want string
	Got  string
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("layout descriptor mismatch: want %q, got %q", e.Want, e.Got)
}

// CountMismatchError indicates that a declared element count disagrees with
// what the artifact actually holds.
type CountMismatchError struct {
	What     string
	Declared int64
	Actual   int64
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s count mismatch: declared %d, actual %d", e.What, e.Declared, e.Actual)
}

// UnsupportedVersionError indicates an artifact from a foreign major
// version (other than the supported legacy checkpoint).
type UnsupportedVersionError struct {
	Major int32
	Minor int32
	Patch int32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf(
		"cannot load model stored by version %d.%d.%d: current version is %d.%d.%d and only the %d.%d legacy checkpoint is supported across majors",
		e.Major, e.Minor, e.Patch,
		MajorVersion, MinorVersion, PatchVersion,
		LegacyMajorVersion, LegacyMinorVersion,
	)
}
