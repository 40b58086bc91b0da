package model

import (
	"fmt"
)

// TypeInfo is a runtime tag for the numeric kinds a model can be
// instantiated with.
type TypeInfo uint8

const (
	TypeInvalid TypeInfo = iota
	TypeUInt32
	TypeFloat32
	TypeFloat64
)

func (t TypeInfo) String() string {
	switch t {
	case TypeUInt32:
		return "uint32"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return "invalid"
	}
}

// Size returns the wire size of the type in bytes.
func (t TypeInfo) Size() int {
	switch t {
	case TypeUInt32, TypeFloat32:
		return 4
	case TypeFloat64:
		return 8
	default:
		return 0
	}
}

// ParseTypeInfo maps a textual type code back to its tag.
func ParseTypeInfo(s string) (TypeInfo, error) {
	switch s {
	case "uint32":
		return TypeUInt32, nil
	case "float32":
		return TypeFloat32, nil
	case "float64":
		return TypeFloat64, nil
	default:
		return TypeInvalid, fmt.Errorf("unknown type code: %q", s)
	}
}

// Threshold constrains the numeric types usable for split thresholds.
type Threshold interface {
	float32 | float64
}

// LeafOutput constrains the numeric types usable for leaf outputs.
type LeafOutput interface {
	uint32 | float32 | float64
}

// TypePair identifies one concrete model instantiation.
type TypePair struct {
	Threshold  TypeInfo
	LeafOutput TypeInfo
}

func (p TypePair) String() string {
	return fmt.Sprintf("(%s, %s)", p.Threshold, p.LeafOutput)
}

// ErrUnsupportedTypePair indicates a (threshold, leaf output) combination
// outside the supported set.
type ErrUnsupportedTypePair struct {
	Pair TypePair
}

func (e *ErrUnsupportedTypePair) Error() string {
	return fmt.Sprintf("unsupported type pair: %s", e.Pair)
}

// Variant is the tagged union over the supported tree-container
// instantiations. Consumers dispatch with an exhaustive type switch over
// *Trees[float32,float32], *Trees[float32,uint32], *Trees[float64,float64]
// and *Trees[float64,uint32].
type Variant interface {
	TypePair() TypePair
	NumTrees() int
}

// Trees is the tree container for one concrete type pair.
type Trees[T Threshold, L LeafOutput] struct {
	Trees []Tree[T, L]
}

// TypePair implements Variant.
func (t *Trees[T, L]) TypePair() TypePair {
	var th T
	var lo L
	return TypePair{Threshold: typeInfoOf(th), LeafOutput: typeInfoOf(lo)}
}

// NumTrees implements Variant.
func (t *Trees[T, L]) NumTrees() int { return len(t.Trees) }

func typeInfoOf(v any) TypeInfo {
	switch v.(type) {
	case uint32:
		return TypeUInt32
	case float32:
		return TypeFloat32
	case float64:
		return TypeFloat64
	default:
		return TypeInvalid
	}
}

// NewVariant is the dispatch table from a type pair to its concrete tree
// container. The set of supported pairs is closed.
func NewVariant(p TypePair) (Variant, error) {
	switch p {
	case TypePair{TypeFloat32, TypeFloat32}:
		return &Trees[float32, float32]{}, nil
	case TypePair{TypeFloat32, TypeUInt32}:
		return &Trees[float32, uint32]{}, nil
	case TypePair{TypeFloat64, TypeFloat64}:
		return &Trees[float64, float64]{}, nil
	case TypePair{TypeFloat64, TypeUInt32}:
		return &Trees[float64, uint32]{}, nil
	default:
		return nil, &ErrUnsupportedTypePair{Pair: p}
	}
}

// TreesOf asserts the model's variant to a concrete instantiation.
func TreesOf[T Threshold, L LeafOutput](m *Model) (*Trees[T, L], error) {
	v, ok := m.Variant.(*Trees[T, L])
	if !ok {
		want := (&Trees[T, L]{}).TypePair()
		return nil, fmt.Errorf("model holds %s trees, requested %s", m.Variant.TypePair(), want)
	}
	return v, nil
}
