// Run command executes one simulation run.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-home/galaxykit/internal/engine"
	"github.com/sage-home/galaxykit/internal/params"
	"github.com/sage-home/galaxykit/internal/paths"
)

var (
	runParamsFile string
	runOutputDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a simulation run",
	Long: `Run loads the configured physics modules, bridges the compiled core
catalog into the property registry, evolves the galaxy population
snapshot by snapshot, and writes every serializable property to the
output database.

The parameter file is found via --params, the GALAXYKIT_PARAMS
environment variable, or a galaxykit.yaml in the working or platform
config directory. The output directory is resolved from --output, the
parameter file, the GALAXYKIT_OUTPUT_DIR environment variable, or
$(CWD)/output.

Example:
  galaxykit run
  galaxykit run --params params.yaml --output /data/run7`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runParamsFile, "params", "", "parameter file (default: galaxykit.yaml if present)")
	runCmd.Flags().StringVar(&runOutputDir, "output", "", "output directory (default: resolved from parameters)")
}

func runRun(cmd *cobra.Command, args []string) error {
	paramsFile, err := paths.ResolveParamsFile(runParamsFile)
	if err != nil {
		return fmt.Errorf("resolve parameter file: %w", err)
	}

	p, err := params.Load(paramsFile)
	if err != nil {
		return fmt.Errorf("load parameters: %w", err)
	}

	p.OutputDir, err = paths.ResolveOutputDir(runOutputDir, p.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	logger, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	summary, err := engine.New(p, logger).Run()
	if err != nil {
		return fmt.Errorf("run simulation: %w", err)
	}

	fmt.Printf("run %s complete\n", summary.RunID)
	fmt.Printf("  snapshots: %d\n", summary.Snapshots)
	fmt.Printf("  galaxies:  %d\n", summary.Galaxies)
	fmt.Printf("  merged:    %d\n", summary.Merged)
	fmt.Printf("  rows:      %d\n", summary.Rows)
	return nil
}
