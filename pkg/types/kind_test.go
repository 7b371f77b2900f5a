package types

import "testing"

func TestKindElemSize(t *testing.T) {
	tests := []struct {
		kind     Kind
		wantSize int
		wantErr  error
	}{
		{Float32, 4, nil},
		{Float64, 8, nil},
		{Int32, 4, nil},
		{Int64, 8, nil},
		{UInt64, 8, nil},
		{Kind(-1), 0, ErrInvalidKind},
		{KindCount, 0, ErrInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			size, err := tt.kind.ElemSize()
			if err != tt.wantErr {
				t.Errorf("ElemSize() error = %v, want %v", err, tt.wantErr)
			}
			if size != tt.wantSize {
				t.Errorf("ElemSize() = %d, want %d", size, tt.wantSize)
			}
		})
	}
}

func TestKindValid(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		if !k.Valid() {
			t.Errorf("Valid(%v) = false, want true", k)
		}
	}
	for _, k := range []Kind{Kind(-1), KindCount, Kind(99)} {
		if k.Valid() {
			t.Errorf("Valid(%v) = true, want false", k)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Float32, "float32"},
		{Float64, "float64"},
		{Int32, "int32"},
		{Int64, "int64"},
		{UInt64, "uint64"},
		{Kind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int32(tt.kind), got, tt.want)
		}
	}
}
