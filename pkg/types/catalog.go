package types

// CatalogEntry describes one compiled core field of the Galaxy record.
// Extract reads the field into a fresh typed value; Inject writes a
// typed value back into the field. The bridge wraps these in codec
// callbacks so core fields serialize through the same descriptor walk
// as module properties.
type CatalogEntry struct {
	Name    string // Output name of the field.
	Kind    Kind   // Declared element kind.
	Array   bool   // True for fixed-size vector fields.
	Dim     int    // Element count for array entries; 0 for scalars.
	Extract func(g *Galaxy) (*Value, error)
	Inject  func(g *Galaxy, v *Value) error
}

// CoreCatalog is the compiled table of core Galaxy fields, in record
// order. Positions in this table are the catalog ids handed to the
// bridge. The table is shared; callers must not modify it.
var CoreCatalog = []CatalogEntry{
	{Name: "Type", Kind: Int32,
		Extract: extractI32(func(g *Galaxy) int32 { return g.Type }),
		Inject:  injectI32(func(g *Galaxy, x int32) { g.Type = x })},
	{Name: "SnapNum", Kind: Int32,
		Extract: extractI32(func(g *Galaxy) int32 { return g.SnapNum }),
		Inject:  injectI32(func(g *Galaxy, x int32) { g.SnapNum = x })},
	{Name: "GalaxyIndex", Kind: UInt64,
		Extract: extractU64(func(g *Galaxy) uint64 { return g.GalaxyIndex }),
		Inject:  injectU64(func(g *Galaxy, x uint64) { g.GalaxyIndex = x })},
	{Name: "Len", Kind: Int32,
		Extract: extractI32(func(g *Galaxy) int32 { return g.Len }),
		Inject:  injectI32(func(g *Galaxy, x int32) { g.Len = x })},
	{Name: "Mvir", Kind: Float64,
		Extract: extractF64(func(g *Galaxy) float64 { return g.Mvir }),
		Inject:  injectF64(func(g *Galaxy, x float64) { g.Mvir = x })},
	{Name: "StellarMass", Kind: Float64,
		Extract: extractF64(func(g *Galaxy) float64 { return g.StellarMass }),
		Inject:  injectF64(func(g *Galaxy, x float64) { g.StellarMass = x })},
	{Name: "ColdGas", Kind: Float64,
		Extract: extractF64(func(g *Galaxy) float64 { return g.ColdGas }),
		Inject:  injectF64(func(g *Galaxy, x float64) { g.ColdGas = x })},
	{Name: "HotGas", Kind: Float64,
		Extract: extractF64(func(g *Galaxy) float64 { return g.HotGas }),
		Inject:  injectF64(func(g *Galaxy, x float64) { g.HotGas = x })},
	{Name: "BlackHoleMass", Kind: Float64,
		Extract: extractF64(func(g *Galaxy) float64 { return g.BlackHoleMass }),
		Inject:  injectF64(func(g *Galaxy, x float64) { g.BlackHoleMass = x })},
	{Name: "Rvir", Kind: Float32,
		Extract: extractF32(func(g *Galaxy) float32 { return g.Rvir }),
		Inject:  injectF32(func(g *Galaxy, x float32) { g.Rvir = x })},
	{Name: "Vvir", Kind: Float32,
		Extract: extractF32(func(g *Galaxy) float32 { return g.Vvir }),
		Inject:  injectF32(func(g *Galaxy, x float32) { g.Vvir = x })},
	{Name: "Pos", Kind: Float32, Array: true, Dim: 3,
		Extract: extractVec3(func(g *Galaxy) *[3]float32 { return &g.Pos }),
		Inject:  injectVec3(func(g *Galaxy) *[3]float32 { return &g.Pos })},
	{Name: "Vel", Kind: Float32, Array: true, Dim: 3,
		Extract: extractVec3(func(g *Galaxy) *[3]float32 { return &g.Vel }),
		Inject:  injectVec3(func(g *Galaxy) *[3]float32 { return &g.Vel })},
}

// CoreCount returns the number of compiled core catalog entries.
func CoreCount() int {
	return len(CoreCatalog)
}

func extractF32(get func(*Galaxy) float32) func(*Galaxy) (*Value, error) {
	return func(g *Galaxy) (*Value, error) {
		v, err := NewValue(Float32, 1)
		if err != nil {
			return nil, err
		}
		v.F32[0] = get(g)
		return v, nil
	}
}

func extractF64(get func(*Galaxy) float64) func(*Galaxy) (*Value, error) {
	return func(g *Galaxy) (*Value, error) {
		v, err := NewValue(Float64, 1)
		if err != nil {
			return nil, err
		}
		v.F64[0] = get(g)
		return v, nil
	}
}

func extractI32(get func(*Galaxy) int32) func(*Galaxy) (*Value, error) {
	return func(g *Galaxy) (*Value, error) {
		v, err := NewValue(Int32, 1)
		if err != nil {
			return nil, err
		}
		v.I32[0] = get(g)
		return v, nil
	}
}

func extractU64(get func(*Galaxy) uint64) func(*Galaxy) (*Value, error) {
	return func(g *Galaxy) (*Value, error) {
		v, err := NewValue(UInt64, 1)
		if err != nil {
			return nil, err
		}
		v.U64[0] = get(g)
		return v, nil
	}
}

func extractVec3(field func(*Galaxy) *[3]float32) func(*Galaxy) (*Value, error) {
	return func(g *Galaxy) (*Value, error) {
		v, err := NewValue(Float32, 3)
		if err != nil {
			return nil, err
		}
		copy(v.F32, field(g)[:])
		return v, nil
	}
}

func injectF32(set func(*Galaxy, float32)) func(*Galaxy, *Value) error {
	return func(g *Galaxy, v *Value) error {
		if v == nil {
			return ErrNilValue
		}
		if v.Kind != Float32 {
			return ErrKindMismatch
		}
		if len(v.F32) != 1 {
			return ErrCodecSize
		}
		set(g, v.F32[0])
		return nil
	}
}

func injectF64(set func(*Galaxy, float64)) func(*Galaxy, *Value) error {
	return func(g *Galaxy, v *Value) error {
		if v == nil {
			return ErrNilValue
		}
		if v.Kind != Float64 {
			return ErrKindMismatch
		}
		if len(v.F64) != 1 {
			return ErrCodecSize
		}
		set(g, v.F64[0])
		return nil
	}
}

func injectI32(set func(*Galaxy, int32)) func(*Galaxy, *Value) error {
	return func(g *Galaxy, v *Value) error {
		if v == nil {
			return ErrNilValue
		}
		if v.Kind != Int32 {
			return ErrKindMismatch
		}
		if len(v.I32) != 1 {
			return ErrCodecSize
		}
		set(g, v.I32[0])
		return nil
	}
}

func injectU64(set func(*Galaxy, uint64)) func(*Galaxy, *Value) error {
	return func(g *Galaxy, v *Value) error {
		if v == nil {
			return ErrNilValue
		}
		if v.Kind != UInt64 {
			return ErrKindMismatch
		}
		if len(v.U64) != 1 {
			return ErrCodecSize
		}
		set(g, v.U64[0])
		return nil
	}
}

func injectVec3(field func(*Galaxy) *[3]float32) func(*Galaxy, *Value) error {
	return func(g *Galaxy, v *Value) error {
		if v == nil {
			return ErrNilValue
		}
		if v.Kind != Float32 {
			return ErrKindMismatch
		}
		if len(v.F32) != 3 {
			return ErrCodecSize
		}
		copy(field(g)[:], v.F32)
		return nil
	}
}
