package serializer

// Current library version. Immutable process-wide: stamped into every
// encode, compared on every decode.
const (
	MajorVersion int32 = 4
	MinorVersion int32 = 1
	PatchVersion int32 = 0
)

// The single frozen historical format the current version still reads.
const (
	LegacyMajorVersion int32 = 3
	LegacyMinorVersion int32 = 9
)

// Outcome is the version negotiator's decision for a stored version triple.
type Outcome uint8

const (
	// Accept parses the artifact with the current layout.
	Accept Outcome = iota
	// WarnForward parses with the current layout; the artifact comes from
	// a newer minor version, so unknown trailing fields are tolerated via
	// the optional-field skip machinery.
	WarnForward
	// LegacyMigrate parses with the frozen legacy layout.
	LegacyMigrate
	// Reject aborts: the artifact comes from an incompatible major version.
	Reject
)

func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case WarnForward:
		return "warn-forward"
	case LegacyMigrate:
		return "legacy-migrate"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Negotiate decides, from the stored version triple alone, how the rest of
// the artifact must be parsed.
func Negotiate(major, minor int32) Outcome {
	switch {
	case major == LegacyMajorVersion && minor == LegacyMinorVersion:
		return LegacyMigrate
	case major != MajorVersion:
		return Reject
	case minor > MinorVersion:
		return WarnForward
	default:
		return Accept
	}
}
