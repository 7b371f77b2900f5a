package types

import "errors"

// Kind identifies the element type of a property value. Array properties
// use the same kinds; every element of an array shares one Kind.
type Kind int32

const (
	Float32 Kind = iota
	Float64
	Int32
	Int64
	UInt64

	// KindCount bounds the valid Kind range.
	KindCount
)

// ErrInvalidKind reports a Kind outside the recognized range.
var ErrInvalidKind = errors.New("invalid element kind")

// kindNames maps each Kind to its display name.
var kindNames = map[Kind]string{
	Float32: "float32",
	Float64: "float64",
	Int32:   "int32",
	Int64:   "int64",
	UInt64:  "uint64",
}

// Valid reports whether k is a recognized element kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < KindCount
}

// String returns the display name of the kind, or "unknown" if it is
// not recognized.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ElemSize returns the size in bytes of one element of this kind.
// Returns 0 and ErrInvalidKind if the kind is not recognized.
func (k Kind) ElemSize() (int, error) {
	switch k {
	case Float32, Int32:
		return 4, nil
	case Float64, Int64, UInt64:
		return 8, nil
	default:
		return 0, ErrInvalidKind
	}
}
