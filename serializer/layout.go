package serializer

import (
	"fmt"

	"github.com/hupe1980/treekit/model"
)

// Layout is an explicit descriptor of a field's wire shape: a
// struct-style format string plus the byte size it denotes. Reader and
// writer must agree on it byte for byte; it is carried verbatim in frame
// headers so the frame transport can verify the contract.
//
// The descriptor grammar is a subset of Python struct notation:
//
//	=          native order marker, ignored for sizing
//	x          one padding byte
//	b B ?      one byte (int8, uint8, bool)
//	h H        two bytes
//	i I l L f  four bytes
//	q Q d      eight bytes
//	Ns         N raw bytes (e.g. 256s)
//	T{...}     composite grouping
type Layout struct {
	Spec string
	Size int
}

// ParseLayout computes the byte size denoted by a descriptor.
func ParseLayout(spec string) (Layout, error) {
	size, rest, err := layoutSize(spec)
	if err != nil {
		return Layout{}, fmt.Errorf("layout %q: %w", spec, err)
	}
	if rest != "" {
		return Layout{}, fmt.Errorf("layout %q: trailing %q", spec, rest)
	}
	return Layout{Spec: spec, Size: size}, nil
}

// MustLayout is ParseLayout for descriptors fixed at compile time.
func MustLayout(spec string) Layout {
	l, err := ParseLayout(spec)
	if err != nil {
		panic(err)
	}
	return l
}

func layoutSize(spec string) (size int, rest string, err error) {
	i := 0
	for i < len(spec) {
		c := spec[i]
		switch {
		case c == '=':
			i++
		case c == '}':
			return size, spec[i:], nil
		case c == 'T':
			if i+1 >= len(spec) || spec[i+1] != '{' {
				return 0, "", fmt.Errorf("expected '{' after 'T' at offset %d", i)
			}
			inner, innerRest, err := layoutSize(spec[i+2:])
			if err != nil {
				return 0, "", err
			}
			if innerRest == "" || innerRest[0] != '}' {
				return 0, "", fmt.Errorf("unterminated group at offset %d", i)
			}
			size += inner
			spec = innerRest[1:]
			i = 0
		case c >= '0' && c <= '9':
			count := 0
			for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
				count = count*10 + int(spec[i]-'0')
				i++
			}
			if i >= len(spec) || spec[i] != 's' {
				return 0, "", fmt.Errorf("count without 's' at offset %d", i)
			}
			size += count
			i++
		default:
			n, ok := typeCharSize(c)
			if !ok {
				return 0, "", fmt.Errorf("unknown type char %q at offset %d", c, i)
			}
			size += n
			i++
		}
	}
	return size, "", nil
}

func typeCharSize(c byte) (int, bool) {
	switch c {
	case 'x', 'b', 'B', '?':
		return 1, true
	case 'h', 'H':
		return 2, true
	case 'i', 'I', 'l', 'L', 'f':
		return 4, true
	case 'q', 'Q', 'd':
		return 8, true
	case 's':
		return 1, true
	default:
		return 0, false
	}
}

// Scalar layouts used by the header and tree records.
var (
	layoutInt32   = MustLayout("=l")
	layoutUint8   = MustLayout("=B")
	layoutBool    = MustLayout("=?")
	layoutUint32  = MustLayout("=L")
	layoutUint64  = MustLayout("=Q")
	layoutFloat32 = MustLayout("=f")
	layoutFloat64 = MustLayout("=d")
)

// Composite layouts. These strings are frozen wire contracts; changing one
// is a format break.
var (
	layoutTaskParam  = MustLayout("T{=B=?xx=I=I}")
	layoutModelParam = MustLayout("T{256s=f=f=f}")

	// Current node record: ids, packed split index, value slot, operator
	// and flags, then the optional training statistics.
	layoutNodeF32 = MustLayout("T{=l=l=L=f=B=B=?=?=?=?=Q=d=d}")
	layoutNodeF64 = MustLayout("T{=l=l=L=d=B=B=?=?=?=?=Q=d=d}")

	// Frozen legacy (3.9) node record: statistics precede the operator and
	// flag block, which makes the two layouts incompatible by construction.
	layoutLegacyNodeF32 = MustLayout("T{=l=l=L=f=Q=d=d=B=B=?=?=?=?}")
	layoutLegacyNodeF64 = MustLayout("T{=l=l=L=d=Q=d=d=B=B=?=?=?=?}")
)

// nodeLayout selects the node record descriptor for a threshold type. The
// value slot is sized by the threshold type, which is at least as wide as
// every supported leaf-output type.
func nodeLayout(t model.TypeInfo) (Layout, error) {
	switch t {
	case model.TypeFloat32:
		return layoutNodeF32, nil
	case model.TypeFloat64:
		return layoutNodeF64, nil
	default:
		return Layout{}, fmt.Errorf("no node layout for threshold type %s", t)
	}
}

func legacyNodeLayout(t model.TypeInfo) (Layout, error) {
	switch t {
	case model.TypeFloat32:
		return layoutLegacyNodeF32, nil
	case model.TypeFloat64:
		return layoutLegacyNodeF64, nil
	default:
		return Layout{}, fmt.Errorf("no legacy node layout for threshold type %s", t)
	}
}

// primitiveLayout maps a leaf-output or category element type to its
// scalar layout.
func primitiveLayout(t model.TypeInfo) (Layout, error) {
	switch t {
	case model.TypeUInt32:
		return layoutUint32, nil
	case model.TypeFloat32:
		return layoutFloat32, nil
	case model.TypeFloat64:
		return layoutFloat64, nil
	default:
		return Layout{}, fmt.Errorf("no primitive layout for type %s", t)
	}
}
