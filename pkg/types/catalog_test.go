package types

import "testing"

func TestCoreCatalogNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, entry := range CoreCatalog {
		if entry.Name == "" {
			t.Error("catalog entry with empty name")
		}
		if seen[entry.Name] {
			t.Errorf("duplicate catalog name %q", entry.Name)
		}
		seen[entry.Name] = true
	}
	if CoreCount() != len(CoreCatalog) {
		t.Errorf("CoreCount() = %d, want %d", CoreCount(), len(CoreCatalog))
	}
}

func TestCoreCatalogShapes(t *testing.T) {
	for _, entry := range CoreCatalog {
		if !entry.Kind.Valid() {
			t.Errorf("%s: invalid kind %v", entry.Name, entry.Kind)
		}
		if entry.Array && entry.Dim <= 0 {
			t.Errorf("%s: array entry with dim %d", entry.Name, entry.Dim)
		}
		if !entry.Array && entry.Dim != 0 {
			t.Errorf("%s: scalar entry with dim %d", entry.Name, entry.Dim)
		}
		if entry.Extract == nil || entry.Inject == nil {
			t.Errorf("%s: missing extract or inject", entry.Name)
		}
	}
}

func TestCoreCatalogExtractInjectRoundTrip(t *testing.T) {
	src := Galaxy{
		Type:          GalaxySatellite,
		SnapNum:       12,
		GalaxyIndex:   900719925474099,
		Len:           4096,
		Mvir:          1.4e12,
		StellarMass:   3.1e10,
		ColdGas:       5.5e9,
		HotGas:        8.8e10,
		BlackHoleMass: 2.2e7,
		Rvir:          210.5,
		Vvir:          175.25,
		Pos:           [3]float32{10, 20, 30},
		Vel:           [3]float32{-110.5, 42, 0.5},
	}
	var dst Galaxy
	for _, entry := range CoreCatalog {
		v, err := entry.Extract(&src)
		if err != nil {
			t.Fatalf("%s: Extract: %v", entry.Name, err)
		}
		wantLen := 1
		if entry.Array {
			wantLen = entry.Dim
		}
		if v.Len() != wantLen {
			t.Errorf("%s: extracted len = %d, want %d", entry.Name, v.Len(), wantLen)
		}
		if err := entry.Inject(&dst, v); err != nil {
			t.Fatalf("%s: Inject: %v", entry.Name, err)
		}
	}
	// Re-extracting from dst must reproduce every injected value.
	for _, entry := range CoreCatalog {
		want, err := entry.Extract(&src)
		if err != nil {
			t.Fatalf("%s: Extract(src): %v", entry.Name, err)
		}
		got, err := entry.Extract(&dst)
		if err != nil {
			t.Fatalf("%s: Extract(dst): %v", entry.Name, err)
		}
		if !got.Equal(want) {
			t.Errorf("%s: round trip lost the field value", entry.Name)
		}
	}
}

func TestCoreCatalogInjectRejectsBadShape(t *testing.T) {
	var g Galaxy
	for _, entry := range CoreCatalog {
		if err := entry.Inject(&g, nil); err != ErrNilValue {
			t.Errorf("%s: Inject(nil) = %v, want %v", entry.Name, err, ErrNilValue)
		}
	}
	// Kind mismatch on a scalar and a vector entry.
	wrong, _ := NewValue(Int64, 1)
	if err := CoreCatalog[0].Inject(&g, wrong); err != ErrKindMismatch {
		t.Errorf("Inject wrong kind = %v, want %v", err, ErrKindMismatch)
	}
	short, _ := NewValue(Float32, 2)
	var posEntry *CatalogEntry
	for i := range CoreCatalog {
		if CoreCatalog[i].Name == "Pos" {
			posEntry = &CoreCatalog[i]
		}
	}
	if posEntry == nil {
		t.Fatal("Pos entry missing from catalog")
	}
	if err := posEntry.Inject(&g, short); err != ErrCodecSize {
		t.Errorf("Inject short vector = %v, want %v", err, ErrCodecSize)
	}
}
