package physics

import (
	"fmt"

	"github.com/sage-home/galaxykit/pkg/registry"
	"github.com/sage-home/galaxykit/pkg/types"
)

// Property names owned by the spin module.
const (
	SpinName       = "Spin"
	SpinVectorName = "SpinVector"
)

// spinEquilibrium is the value the spin parameter relaxes toward as
// the halo accretes.
const spinEquilibrium = 0.5

// SpinModule tracks a dimensionless spin parameter and its
// orientation for every galaxy.
type SpinModule struct {
	spin types.PropertyID
	vec  types.PropertyID
}

// NewSpinModule returns an unloaded spin module.
func NewSpinModule() *SpinModule {
	return &SpinModule{spin: registry.InvalidProperty, vec: registry.InvalidProperty}
}

// Name returns the configuration name of the module.
func (m *SpinModule) Name() string { return "spin" }

// RegisterProperties registers Spin and SpinVector under the assigned
// module id.
func (m *SpinModule) RegisterProperties(reg *registry.Registry, module types.ModuleID) error {
	id, err := reg.Register(types.Descriptor{
		Name:      SpinName,
		SizeBytes: 4,
		Kind:      types.Float32,
		Module:    module,
		Flags:     types.FlagSerialize | types.FlagZeroInit,
		Marshal:   types.BinaryMarshaler(types.Float32),
		Unmarshal: types.BinaryUnmarshaler(types.Float32),
	})
	if err != nil {
		return fmt.Errorf("registering %s: %w", SpinName, err)
	}
	m.spin = id

	id, err = reg.Register(types.Descriptor{
		Name:      SpinVectorName,
		SizeBytes: 12,
		Kind:      types.Float32,
		Array:     true,
		ArrayLen:  3,
		Module:    module,
		Flags:     types.FlagSerialize,
		Marshal:   types.BinaryMarshaler(types.Float32),
		Unmarshal: types.BinaryUnmarshaler(types.Float32),
	})
	if err != nil {
		return fmt.Errorf("registering %s: %w", SpinVectorName, err)
	}
	m.vec = id
	return nil
}

// Evolve relaxes the spin parameter toward equilibrium at the halo
// growth rate and rescales the spin vector components.
func (m *SpinModule) Evolve(reg *registry.Registry, g *types.Galaxy, step Step) {
	cur := registry.Get(reg, g, m.spin, float32(0))
	next := cur + float32(step.Growth)*(spinEquilibrium-cur)
	registry.Set(reg, g, m.spin, next)

	registry.SetAt(reg, g, m.vec, 0, next)
	registry.SetAt(reg, g, m.vec, 1, next*0.5)
	registry.SetAt(reg, g, m.vec, 2, next*0.25)
}
