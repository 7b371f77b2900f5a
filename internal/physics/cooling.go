package physics

import (
	"fmt"

	"github.com/sage-home/galaxykit/pkg/registry"
	"github.com/sage-home/galaxykit/pkg/types"
)

// Property names owned by the cooling module. The history array is
// dynamic, so it registers a companion size pair alongside it.
const (
	CoolingRateName    = "CoolingRate"
	CoolingHistoryName = "CoolingHistory"
)

// coolingFraction is the share of hot gas that cools onto the disk
// each snapshot.
const coolingFraction = 0.25

// CoolingModule moves gas from the hot halo to the cold disk and
// keeps a per-snapshot history of the cooling rate.
type CoolingModule struct {
	rate    types.PropertyID
	history types.PropertyID
	size    types.PropertyID
}

// NewCoolingModule returns an unloaded cooling module.
func NewCoolingModule() *CoolingModule {
	return &CoolingModule{
		rate:    registry.InvalidProperty,
		history: registry.InvalidProperty,
		size:    registry.InvalidProperty,
	}
}

// Name returns the configuration name of the module.
func (m *CoolingModule) Name() string { return "cooling" }

// RegisterProperties registers CoolingRate, the dynamic
// CoolingHistory array, and its size pair under the assigned module
// id.
func (m *CoolingModule) RegisterProperties(reg *registry.Registry, module types.ModuleID) error {
	id, err := reg.Register(types.Descriptor{
		Name:      CoolingRateName,
		SizeBytes: 8,
		Kind:      types.Float64,
		Module:    module,
		Flags:     types.FlagSerialize | types.FlagZeroInit,
		Marshal:   types.BinaryMarshaler(types.Float64),
		Unmarshal: types.BinaryUnmarshaler(types.Float64),
	})
	if err != nil {
		return fmt.Errorf("registering %s: %w", CoolingRateName, err)
	}
	m.rate = id

	id, err = reg.Register(types.Descriptor{
		Name:      CoolingHistoryName,
		SizeBytes: types.PlaceholderSize,
		Kind:      types.Float64,
		Array:     true,
		Module:    module,
		Flags:     types.FlagSerialize,
		Marshal:   types.BinaryMarshaler(types.Float64),
		Unmarshal: types.BinaryUnmarshaler(types.Float64),
	})
	if err != nil {
		return fmt.Errorf("registering %s: %w", CoolingHistoryName, err)
	}
	m.history = id

	sizeName := types.SizePairName(CoolingHistoryName)
	id, err = reg.Register(types.Descriptor{
		Name:      sizeName,
		SizeBytes: 4,
		Kind:      types.Int32,
		Module:    module,
		Flags:     types.FlagSerialize | types.FlagZeroInit,
		Marshal:   types.BinaryMarshaler(types.Int32),
		Unmarshal: types.BinaryUnmarshaler(types.Int32),
	})
	if err != nil {
		return fmt.Errorf("registering %s: %w", sizeName, err)
	}
	m.size = id
	return nil
}

// Evolve cools a fixed fraction of the hot gas onto the disk, records
// the rate, and appends it to the per-galaxy history. The size pair
// is bumped before the history write so the new slot is in bounds.
func (m *CoolingModule) Evolve(reg *registry.Registry, g *types.Galaxy, step Step) {
	rate := coolingFraction * g.HotGas
	g.HotGas -= rate
	g.ColdGas += rate

	registry.Set(reg, g, m.rate, rate)
	registry.Set(reg, g, m.size, step.Snap+1)
	registry.SetAt(reg, g, m.history, int(step.Snap), rate)
}
