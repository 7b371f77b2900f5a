// Unit tests for the spin module's descriptors and evolution rule.
package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-home/galaxykit/pkg/registry"
	"github.com/sage-home/galaxykit/pkg/types"
)

// setupSpin loads the spin module alone and attaches one galaxy.
func setupSpin(t *testing.T) (*registry.Registry, *SpinModule, *types.Galaxy) {
	t.Helper()
	reg := registry.New()
	m := NewSpinModule()
	require.NoError(t, m.RegisterProperties(reg, 0))
	g := &types.Galaxy{}
	require.NoError(t, reg.Attach(g))
	return reg, m, g
}

func TestSpinModuleDescriptors(t *testing.T) {
	reg := registry.New()
	m := NewSpinModule()
	require.NoError(t, m.RegisterProperties(reg, 3))

	id, d, ok := reg.FindByName(SpinName)
	require.True(t, ok)
	assert.Equal(t, types.PropertyID(0), id)
	assert.Equal(t, types.Float32, d.Kind)
	assert.True(t, d.Flags.Has(types.FlagSerialize|types.FlagZeroInit))
	assert.False(t, d.Array)
	assert.Equal(t, types.ModuleID(3), d.Module)

	_, d, ok = reg.FindByName(SpinVectorName)
	require.True(t, ok)
	assert.True(t, d.Array)
	assert.Equal(t, 3, d.ArrayLen)
	assert.Equal(t, 12, d.SizeBytes)
	assert.False(t, d.Dynamic())
}

func TestSpinEvolveRelaxes(t *testing.T) {
	reg, m, g := setupSpin(t)

	// Growth 0.5 halves the distance to equilibrium each snapshot.
	want := []float32{0.25, 0.375, 0.4375}
	for snap, expect := range want {
		m.Evolve(reg, g, Step{Snap: int32(snap), Growth: 0.5})
		assert.Equal(t, expect, registry.Get(reg, g, m.spin, float32(-1)))
	}

	// Vector components track the final spin value.
	for i, expect := range []float32{0.4375, 0.21875, 0.109375} {
		assert.Equal(t, expect, registry.GetAt(reg, g, m.vec, i, float32(-1)))
	}
}

func TestSpinEvolveDetachedGalaxy(t *testing.T) {
	reg := registry.New()
	m := NewSpinModule()
	require.NoError(t, m.RegisterProperties(reg, 0))

	// A detached galaxy degrades every access; evolve must not panic
	// or materialize anything.
	g := &types.Galaxy{}
	m.Evolve(reg, g, Step{Snap: 0, Growth: 0.5})
	assert.False(t, reg.Has(g, m.spin))
}
