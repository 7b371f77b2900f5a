package params

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no stray galaxykit.yaml is found,
	// and point the platform config search at an empty directory too.
	restore := chdir(t, t.TempDir())
	defer restore()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")

	p, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, p.OutputDir)
	assert.Equal(t, "galaxies.db", p.DBFile)
	assert.Equal(t, 8, p.Snapshots)
	assert.Equal(t, 4, p.Galaxies)
	assert.Zero(t, p.MergeSnap)
	assert.Equal(t, []string{"spin", "cooling"}, p.Modules)
	assert.Zero(t, p.DynamicArrayDefault)
	assert.ErrorIs(t, p.Validate(), ErrNoOutputDir)
}

func TestLoadFromConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	restore := chdir(t, t.TempDir())
	defer restore()

	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	dir := filepath.Join(cfgHome, "galaxykit")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := []byte("snapshots: 5\noutput_dir: /data/from-config\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxykit.yaml"), content, 0o644))

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Snapshots)
	assert.Equal(t, "/data/from-config", p.OutputDir)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := []byte(`
output_dir: /data/run7
db_file: out.db
snapshots: 12
galaxies: 32
merge_snap: 6
modules: [spin]
dynamic_array_default: 16
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/run7", p.OutputDir)
	assert.Equal(t, "out.db", p.DBFile)
	assert.Equal(t, 12, p.Snapshots)
	assert.Equal(t, 32, p.Galaxies)
	assert.Equal(t, 6, p.MergeSnap)
	assert.Equal(t, []string{"spin"}, p.Modules)
	assert.Equal(t, 16, p.DynamicArrayDefault)
	assert.NoError(t, p.Validate())
	assert.Equal(t, filepath.Join("/data/run7", "out.db"), p.DBPath())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshots: 3\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Snapshots)
	assert.Empty(t, p.OutputDir)
	assert.Equal(t, 4, p.Galaxies)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Params{
		OutputDir: "output",
		DBFile:    "galaxies.db",
		Snapshots: 8,
		Galaxies:  4,
		MergeSnap: 5,
	}
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr error
	}{
		{"valid", func(p *Params) {}, nil},
		{"merge disabled", func(p *Params) { p.MergeSnap = 0 }, nil},
		{"empty output dir", func(p *Params) { p.OutputDir = "" }, ErrNoOutputDir},
		{"empty db file", func(p *Params) { p.DBFile = "" }, ErrNoDBFile},
		{"zero snapshots", func(p *Params) { p.Snapshots = 0 }, ErrNoSnapshots},
		{"zero galaxies", func(p *Params) { p.Galaxies = 0 }, ErrNoGalaxies},
		{"merge past range", func(p *Params) { p.MergeSnap = 8 }, ErrBadMergeSnap},
		{"negative merge", func(p *Params) { p.MergeSnap = -1 }, ErrBadMergeSnap},
		{"negative dynamic default", func(p *Params) { p.DynamicArrayDefault = -5 }, ErrBadDynamicDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// chdir switches the working directory for a test and returns the
// function that restores it.
func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	}
}
