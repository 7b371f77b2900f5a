// Unit tests for the builtin table and the module loader.
package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-home/galaxykit/pkg/registry"
	"github.com/sage-home/galaxykit/pkg/types"
)

func TestBuiltinTable(t *testing.T) {
	available := Builtin()
	for _, name := range []string{"spin", "cooling"} {
		build, ok := available[name]
		require.True(t, ok, name)
		assert.Equal(t, name, build().Name())
	}
}

func TestLoadAllAssignsModuleIDsInOrder(t *testing.T) {
	reg := registry.New()
	loaded, err := LoadAll(reg, []string{"spin", "cooling"}, Builtin())
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	id, d, ok := reg.FindByName(SpinName)
	require.True(t, ok)
	assert.Equal(t, types.PropertyID(0), id)
	assert.Equal(t, types.ModuleID(0), d.Module)

	_, d, ok = reg.FindByName(CoolingRateName)
	require.True(t, ok)
	assert.Equal(t, types.ModuleID(1), d.Module)

	first, count, ok := reg.FindByModule(0)
	require.True(t, ok)
	assert.Equal(t, types.PropertyID(0), first)
	assert.Equal(t, 2, count)

	first, count, ok = reg.FindByModule(1)
	require.True(t, ok)
	assert.Equal(t, types.PropertyID(2), first)
	assert.Equal(t, 3, count)
}

func TestLoadAllUnknownModule(t *testing.T) {
	reg := registry.New()
	_, err := LoadAll(reg, []string{"spin", "agn"}, Builtin())
	assert.ErrorIs(t, err, ErrUnknownModule)

	// Modules loaded before the unknown name keep their registrations;
	// the caller discards the registry on a failed load.
	_, _, ok := reg.FindByName(SpinName)
	assert.True(t, ok)
}

func TestLoadAllFailedModuleUnregisters(t *testing.T) {
	reg := registry.New()

	// Occupy the vector name so the spin module fails on its second
	// registration.
	_, err := reg.Register(types.Descriptor{
		Name:      SpinVectorName,
		SizeBytes: 12,
		Kind:      types.Float32,
		Array:     true,
		ArrayLen:  3,
		Module:    9,
	})
	require.NoError(t, err)

	_, err = LoadAll(reg, []string{"spin"}, Builtin())
	assert.ErrorIs(t, err, registry.ErrDuplicateName)

	// The whole module is rolled back: its partial registration is
	// tombstoned and its group entry removed.
	_, _, ok := reg.FindByName(SpinName)
	assert.False(t, ok)
	_, _, ok = reg.FindByModule(0)
	assert.False(t, ok)

	// Issued ids are never reclaimed.
	assert.Equal(t, 2, reg.Count())
}
