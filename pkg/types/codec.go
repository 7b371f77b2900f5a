package types

import (
	"encoding/binary"
	"math"
)

// MarshalBinary encodes the value elements as little-endian bytes in
// declaration order, with no header. The element count travels out of
// band (output rows record it alongside the kind).
func (v *Value) MarshalBinary() ([]byte, error) {
	elemSize, err := v.Kind.ElemSize()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, v.Len()*elemSize)
	switch v.Kind {
	case Float32:
		for i, f := range v.F32 {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
		}
	case Float64:
		for i, f := range v.F64 {
			binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
		}
	case Int32:
		for i, n := range v.I32 {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(n))
		}
	case Int64:
		for i, n := range v.I64 {
			binary.LittleEndian.PutUint64(buf[i*8:], uint64(n))
		}
	case UInt64:
		for i, n := range v.U64 {
			binary.LittleEndian.PutUint64(buf[i*8:], n)
		}
	}
	return buf, nil
}

// UnmarshalBinary decodes little-endian bytes into the value, which must
// already hold the target kind and element count (build it with NewValue).
// Returns ErrCodecSize if len(data) does not match the value shape.
func (v *Value) UnmarshalBinary(data []byte) error {
	elemSize, err := v.Kind.ElemSize()
	if err != nil {
		return err
	}
	if len(data) != v.Len()*elemSize {
		return ErrCodecSize
	}
	switch v.Kind {
	case Float32:
		for i := range v.F32 {
			v.F32[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case Float64:
		for i := range v.F64 {
			v.F64[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
	case Int32:
		for i := range v.I32 {
			v.I32[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case Int64:
		for i := range v.I64 {
			v.I64[i] = int64(binary.LittleEndian.Uint64(data[i*8:]))
		}
	case UInt64:
		for i := range v.U64 {
			v.U64[i] = binary.LittleEndian.Uint64(data[i*8:])
		}
	}
	return nil
}

// BinaryMarshaler returns the standard output codec for module-owned
// properties of the given kind: the materialized value encoded with
// MarshalBinary. Returns ErrKindMismatch at call time if the value kind
// disagrees, and ErrNilValue if no value is supplied.
func BinaryMarshaler(kind Kind) MarshalFunc {
	return func(_ *Galaxy, v *Value) ([]byte, error) {
		if v == nil {
			return nil, ErrNilValue
		}
		if v.Kind != kind {
			return nil, ErrKindMismatch
		}
		return v.MarshalBinary()
	}
}

// BinaryUnmarshaler returns the standard input codec for module-owned
// properties of the given kind. The value is resized to the encoded
// element count before decoding, so dynamic arrays round-trip at any
// length.
func BinaryUnmarshaler(kind Kind) UnmarshalFunc {
	return func(_ *Galaxy, v *Value, data []byte) error {
		if v == nil {
			return ErrNilValue
		}
		if v.Kind != kind {
			return ErrKindMismatch
		}
		elemSize, err := kind.ElemSize()
		if err != nil {
			return err
		}
		if len(data)%elemSize != 0 {
			return ErrCodecSize
		}
		fresh, err := NewValue(kind, len(data)/elemSize)
		if err != nil {
			return err
		}
		if err := fresh.UnmarshalBinary(data); err != nil {
			return err
		}
		*v = *fresh
		return nil
	}
}
