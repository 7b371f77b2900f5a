// Package main provides the galaxykit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flagVerbose is set by the --verbose flag.
var flagVerbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "galaxykit",
	Short: "Galaxykit evolves galaxy populations with runtime-registered properties",
	Long: `Galaxykit is a semi-analytic galaxy evolution driver built around a
runtime-extensible property system. Physics modules register typed
per-galaxy properties at load time, the compiled core record is
bridged into the same catalog, and every serializable property lands
in a SQLite output database.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(propertiesCmd)
	rootCmd.AddCommand(inspectCmd)
}

// buildLogger returns the CLI logger: development output when
// --verbose is set, silent otherwise.
func buildLogger() (*zap.Logger, error) {
	if !flagVerbose {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
