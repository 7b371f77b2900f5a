package types

// Galaxy type codes. A galaxy is central in its halo, a satellite
// orbiting inside a larger halo, or an orphan whose subhalo was lost.
const (
	GalaxyCentral   int32 = 0
	GalaxySatellite int32 = 1
	GalaxyOrphan    int32 = 2
)

// Galaxy is the core simulation record. These fields are compiled in
// and accessed directly by physics code; runtime-registered module
// state lives in Ext. The core property catalog mirrors these fields
// so output code can serialize both regimes through one table.
type Galaxy struct {
	Type          int32      // One of the Galaxy type codes.
	SnapNum       int32      // Snapshot the record belongs to.
	GalaxyIndex   uint64     // Unique galaxy identifier within a run.
	Len           int32      // Subhalo particle count.
	Mvir          float64    // Virial mass.
	StellarMass   float64    // Stellar mass formed.
	ColdGas       float64    // Cold gas reservoir.
	HotGas        float64    // Hot halo gas reservoir.
	BlackHoleMass float64    // Central black hole mass.
	Rvir          float32    // Virial radius.
	Vvir          float32    // Virial velocity.
	Pos           [3]float32 // Comoving position.
	Vel           [3]float32 // Peculiar velocity.

	Ext PropertyStore // Runtime-registered property storage.
}
