// Package physics hosts the runtime-loaded modules that evolve
// galaxies. Each module owns a contiguous block of extension
// properties registered at load time and mutates them through the
// typed accessors during the snapshot loop.
package physics

import (
	"errors"
	"fmt"

	"github.com/sage-home/galaxykit/pkg/registry"
	"github.com/sage-home/galaxykit/pkg/types"
)

// ErrUnknownModule is returned when a configured module name has no
// builtin implementation.
var ErrUnknownModule = errors.New("unknown physics module")

// Step carries the per-snapshot context handed to every module.
type Step struct {
	Snap   int32   // snapshot index being evolved
	Growth float64 // fractional halo mass growth this snapshot
}

// Module is one physics recipe. RegisterProperties runs during the
// load phase, before any galaxy is attached; Evolve runs once per
// galaxy per snapshot and must not register anything.
type Module interface {
	Name() string
	RegisterProperties(reg *registry.Registry, module types.ModuleID) error
	Evolve(reg *registry.Registry, g *types.Galaxy, step Step)
}

// Builtin returns the constructor table of the modules shipped with
// the binary, keyed by configuration name.
func Builtin() map[string]func() Module {
	return map[string]func() Module{
		"spin":    func() Module { return NewSpinModule() },
		"cooling": func() Module { return NewCoolingModule() },
	}
}

// LoadAll instantiates the named modules in order, assigning module
// ids from zero, and registers each module's properties. A module
// that fails to register is treated as wholly failed: its partial
// registrations are removed and the load stops with the error.
func LoadAll(reg *registry.Registry, names []string, available map[string]func() Module) ([]Module, error) {
	loaded := make([]Module, 0, len(names))
	for i, name := range names {
		build, ok := available[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
		}
		m := build()
		moduleID := types.ModuleID(i)
		if err := m.RegisterProperties(reg, moduleID); err != nil {
			unregisterModule(reg, moduleID)
			return nil, fmt.Errorf("loading module %q: %w", name, err)
		}
		loaded = append(loaded, m)
	}
	return loaded, nil
}

// unregisterModule tombstones whatever a failed module managed to
// register so the group table holds only complete modules.
func unregisterModule(reg *registry.Registry, module types.ModuleID) {
	first, count, ok := reg.FindByModule(module)
	if !ok {
		return
	}
	for i := 0; i < count; i++ {
		_ = reg.Unregister(first + types.PropertyID(i))
	}
}
