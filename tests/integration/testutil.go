// Package integration provides end-to-end tests for galaxykit.
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// galaxykitBin is the path to the built galaxykit binary.
	galaxykitBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	// Start from the current working directory
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetGalaxykitBin sets the path to the galaxykit binary (called from TestMain).
func SetGalaxykitBin(path string) {
	galaxykitBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated working directory for one CLI test run.
type TestEnv struct {
	t       *testing.T
	TempDir string
	// OutputDir is where a run without overrides lands its database.
	OutputDir string
	// ExtraEnv entries are appended to the command environment.
	ExtraEnv []string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build galaxykit: %v", buildErr)
	}
	if galaxykitBin == "" {
		t.Fatal("galaxykit binary not built (galaxykitBin is empty)")
	}

	tempDir := t.TempDir()
	return &TestEnv{
		t:         t,
		TempDir:   tempDir,
		OutputDir: filepath.Join(tempDir, "output"),
	}
}

// WriteParams writes a parameter file into the environment and returns its path.
func (e *TestEnv) WriteParams(content string) string {
	e.t.Helper()
	path := filepath.Join(e.TempDir, "params.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("failed to write params file: %v", err)
	}
	return path
}

// DBPath returns the default database location inside the environment.
func (e *TestEnv) DBPath() string {
	return filepath.Join(e.OutputDir, "galaxies.db")
}

// CmdResult holds the result of a galaxykit command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunGalaxykit executes the galaxykit CLI with the given arguments.
// The command runs inside the environment's directory with HOME and
// XDG_CONFIG_HOME pointed away from the host so no stray configuration
// leaks in.
func (e *TestEnv) RunGalaxykit(args ...string) CmdResult {
	e.t.Helper()

	cmd := exec.Command(galaxykitBin, args...)
	cmd.Dir = e.TempDir
	env := append(os.Environ(),
		"HOME="+e.TempDir,
		"XDG_CONFIG_HOME="+filepath.Join(e.TempDir, "xdg"),
	)
	cmd.Env = append(env, e.ExtraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run galaxykit: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunGalaxykit executes the galaxykit CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunGalaxykit(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunGalaxykit(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("galaxykit %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// DescriptorRow mirrors one entry of `galaxykit properties --json`.
type DescriptorRow struct {
	ID     int32  `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Shape  string `json:"shape"`
	Size   int    `json:"size_bytes"`
	Module string `json:"module"`
	Flags  string `json:"flags"`
}

// ExportRecord mirrors one line of an exported JSONL run.
type ExportRecord struct {
	Snap        int32  `json:"snap"`
	GalaxyIndex uint64 `json:"galaxy_index"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Values      []any  `json:"values,omitempty"`
	Raw         []byte `json:"raw,omitempty"`
}

// ReadJSONLFile reads a JSONL file (one JSON object per line) and returns a slice.
func ReadJSONLFile[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open JSONL file %s: %v", path, err)
	}
	defer f.Close()

	var results []T
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("failed to parse JSONL line in %s: %v", path, err)
		}
		results = append(results, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to scan JSONL file %s: %v", path, err)
	}
	return results
}
