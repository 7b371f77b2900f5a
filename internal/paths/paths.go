// Package paths resolves parameter file and output directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory name used when nothing overrides the output location.
const DefaultOutputDirName = "output"

// Environment variable names for location overrides.
const (
	EnvParamsFile = "GALAXYKIT_PARAMS"
	EnvOutputDir  = "GALAXYKIT_OUTPUT_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific directory searched for
// galaxykit.yaml after the working directory.
//
// Linux:   $XDG_CONFIG_HOME/galaxykit (fallback ~/.config/galaxykit)
// macOS:   ~/Library/Application Support/galaxykit
// Windows: %APPDATA%/galaxykit
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "galaxykit"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "galaxykit"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "galaxykit"), nil
	}
}

// ResolveParamsFile returns the parameter file path following the precedence
// chain: flag > GALAXYKIT_PARAMS env > "".
//
// An empty result means no override is active and the loader searches its
// default locations.
func ResolveParamsFile(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvParamsFile); env != "" {
		return filepath.Abs(env)
	}
	return "", nil
}

// ResolveOutputDir returns the output directory following the precedence
// chain: flag > params file value > GALAXYKIT_OUTPUT_DIR env > CWD default.
//
// The CWD-relative default ($(CWD)/output) applies when no override is
// active.
func ResolveOutputDir(flag, paramsValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if paramsValue != "" {
		return filepath.Abs(paramsValue)
	}
	if env := os.Getenv(EnvOutputDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultOutputDirName), nil
}
