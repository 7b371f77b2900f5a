// Package params loads and validates simulation run parameters.
package params

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/sage-home/galaxykit/internal/paths"
)

const (
	configFileName = "galaxykit"
	configFileType = "yaml"

	cfgKeyOutputDir      = "output_dir"
	cfgKeyDBFile         = "db_file"
	cfgKeySnapshots      = "snapshots"
	cfgKeyGalaxies       = "galaxies"
	cfgKeyMergeSnap      = "merge_snap"
	cfgKeyModules        = "modules"
	cfgKeyDynamicDefault = "dynamic_array_default"
)

// Parameter validation errors.
var (
	ErrNoOutputDir       = errors.New("output_dir must not be empty")
	ErrNoDBFile          = errors.New("db_file must not be empty")
	ErrNoSnapshots       = errors.New("snapshots must be positive")
	ErrNoGalaxies        = errors.New("galaxies must be positive")
	ErrBadMergeSnap      = errors.New("merge_snap must lie inside the snapshot range")
	ErrBadDynamicDefault = errors.New("dynamic_array_default must not be negative")
)

// Params holds one simulation run's configuration.
type Params struct {
	OutputDir string `mapstructure:"output_dir"` // Directory receiving the output database.
	DBFile    string `mapstructure:"db_file"`    // Database file name inside OutputDir.
	Snapshots int    `mapstructure:"snapshots"`  // Number of snapshots to evolve.
	Galaxies  int    `mapstructure:"galaxies"`   // Galaxies seeded at snapshot zero.
	MergeSnap int    `mapstructure:"merge_snap"` // Snapshot of the satellite merger; 0 disables it.
	// Physics modules to load, in registration order.
	Modules []string `mapstructure:"modules"`
	// Element bound for dynamic arrays without a size companion;
	// 0 keeps the registry default.
	DynamicArrayDefault int `mapstructure:"dynamic_array_default"`
}

// Load reads parameters from the given YAML file. An empty path searches
// for galaxykit.yaml in the working directory, then in the platform
// config directory; a missing file is not an error: defaults apply. An
// explicit path that cannot be read is an error.
//
// OutputDir is left empty when no file sets it so the caller can resolve
// it through paths.ResolveOutputDir.
func Load(path string) (Params, error) {
	v := viper.New()
	v.SetDefault(cfgKeyOutputDir, "")
	v.SetDefault(cfgKeyDBFile, "galaxies.db")
	v.SetDefault(cfgKeySnapshots, 8)
	v.SetDefault(cfgKeyGalaxies, 4)
	v.SetDefault(cfgKeyMergeSnap, 0)
	v.SetDefault(cfgKeyModules, []string{"spin", "cooling"})
	v.SetDefault(cfgKeyDynamicDefault, 0)

	if path == "" {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if dir, err := paths.DefaultConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Params{}, fmt.Errorf("reading parameters: %w", err)
			}
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Params{}, fmt.Errorf("reading parameters from %s: %w", path, err)
		}
	}

	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, fmt.Errorf("decoding parameters: %w", err)
	}
	return p, nil
}

// Validate checks that the parameters describe a runnable simulation.
// Returns a sentinel error from this package on the first violation.
func (p Params) Validate() error {
	if p.OutputDir == "" {
		return ErrNoOutputDir
	}
	if p.DBFile == "" {
		return ErrNoDBFile
	}
	if p.Snapshots < 1 {
		return ErrNoSnapshots
	}
	if p.Galaxies < 1 {
		return ErrNoGalaxies
	}
	if p.MergeSnap < 0 || p.MergeSnap >= p.Snapshots {
		return ErrBadMergeSnap
	}
	if p.DynamicArrayDefault < 0 {
		return ErrBadDynamicDefault
	}
	return nil
}

// DBPath returns the full path of the output database file.
func (p Params) DBPath() string {
	return filepath.Join(p.OutputDir, p.DBFile)
}
