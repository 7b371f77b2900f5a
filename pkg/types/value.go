package types

import "errors"

// Value codec errors.
var (
	ErrKindMismatch = errors.New("value kind mismatch")
	ErrCodecSize    = errors.New("encoded size does not match value shape")
	ErrNegativeLen  = errors.New("value length is negative")
	ErrNilValue     = errors.New("value is nil")
)

// Value holds the typed contents of one materialized property. Exactly
// one element slice is populated, selected by Kind. Scalars are stored
// as length-1 slices. Use NewValue to build a well-formed Value.
type Value struct {
	Kind Kind      // Element kind; selects the populated slice.
	F32  []float32 // Populated when Kind is Float32.
	F64  []float64 // Populated when Kind is Float64.
	I32  []int32   // Populated when Kind is Int32.
	I64  []int64   // Populated when Kind is Int64.
	U64  []uint64  // Populated when Kind is UInt64.
}

// NewValue allocates a zero-filled value of n elements of the given kind.
// Returns ErrInvalidKind if the kind is not recognized and ErrNegativeLen
// if n is negative. n of zero is permitted for empty dynamic arrays.
func NewValue(kind Kind, n int) (*Value, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if n < 0 {
		return nil, ErrNegativeLen
	}
	v := &Value{Kind: kind}
	switch kind {
	case Float32:
		v.F32 = make([]float32, n)
	case Float64:
		v.F64 = make([]float64, n)
	case Int32:
		v.I32 = make([]int32, n)
	case Int64:
		v.I64 = make([]int64, n)
	case UInt64:
		v.U64 = make([]uint64, n)
	}
	return v, nil
}

// Len returns the element count.
func (v *Value) Len() int {
	switch v.Kind {
	case Float32:
		return len(v.F32)
	case Float64:
		return len(v.F64)
	case Int32:
		return len(v.I32)
	case Int64:
		return len(v.I64)
	case UInt64:
		return len(v.U64)
	default:
		return 0
	}
}

// Grow extends the value to n elements, zero-filling the new tail.
// No-op when the value already holds n or more elements.
func (v *Value) Grow(n int) {
	if n <= v.Len() {
		return
	}
	switch v.Kind {
	case Float32:
		v.F32 = append(v.F32, make([]float32, n-len(v.F32))...)
	case Float64:
		v.F64 = append(v.F64, make([]float64, n-len(v.F64))...)
	case Int32:
		v.I32 = append(v.I32, make([]int32, n-len(v.I32))...)
	case Int64:
		v.I64 = append(v.I64, make([]int64, n-len(v.I64))...)
	case UInt64:
		v.U64 = append(v.U64, make([]uint64, n-len(v.U64))...)
	}
}

// Clone returns a deep copy sharing no storage with v.
func (v *Value) Clone() *Value {
	out := &Value{Kind: v.Kind}
	switch v.Kind {
	case Float32:
		out.F32 = append([]float32(nil), v.F32...)
	case Float64:
		out.F64 = append([]float64(nil), v.F64...)
	case Int32:
		out.I32 = append([]int32(nil), v.I32...)
	case Int64:
		out.I64 = append([]int64(nil), v.I64...)
	case UInt64:
		out.U64 = append([]uint64(nil), v.U64...)
	}
	return out
}

// Equal reports whether v and other hold the same kind, length, and
// elements. A nil other is never equal.
func (v *Value) Equal(other *Value) bool {
	if other == nil || v.Kind != other.Kind || v.Len() != other.Len() {
		return false
	}
	switch v.Kind {
	case Float32:
		for i := range v.F32 {
			if v.F32[i] != other.F32[i] {
				return false
			}
		}
	case Float64:
		for i := range v.F64 {
			if v.F64[i] != other.F64[i] {
				return false
			}
		}
	case Int32:
		for i := range v.I32 {
			if v.I32[i] != other.I32[i] {
				return false
			}
		}
	case Int64:
		for i := range v.I64 {
			if v.I64[i] != other.I64[i] {
				return false
			}
		}
	case UInt64:
		for i := range v.U64 {
			if v.U64[i] != other.U64[i] {
				return false
			}
		}
	default:
		return false
	}
	return true
}
