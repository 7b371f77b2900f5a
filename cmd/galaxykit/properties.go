// Properties command lists the registered property descriptor table.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-home/galaxykit/internal/engine"
	"github.com/sage-home/galaxykit/internal/params"
	"github.com/sage-home/galaxykit/internal/paths"
	"github.com/sage-home/galaxykit/pkg/types"
)

var (
	propsParamsFile string
	propsJSON       bool
)

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "List the property descriptor table",
	Long: `Properties loads the configured physics modules, bridges the compiled
core catalog, and prints every registered property descriptor in id
order.

Example:
  galaxykit properties
  galaxykit properties --params params.yaml --json`,
	Args: cobra.NoArgs,
	RunE: runProperties,
}

func init() {
	propertiesCmd.Flags().StringVar(&propsParamsFile, "params", "", "parameter file (default: galaxykit.yaml if present)")
	propertiesCmd.Flags().BoolVar(&propsJSON, "json", false, "output as JSON")
}

// descriptorRow is the listing shape of one registered property.
type descriptorRow struct {
	ID     int32  `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Shape  string `json:"shape"`
	Size   int    `json:"size_bytes"`
	Module string `json:"module"`
	Flags  string `json:"flags"`
}

func runProperties(cmd *cobra.Command, args []string) error {
	paramsFile, err := paths.ResolveParamsFile(propsParamsFile)
	if err != nil {
		return fmt.Errorf("resolve parameter file: %w", err)
	}

	p, err := params.Load(paramsFile)
	if err != nil {
		return fmt.Errorf("load parameters: %w", err)
	}

	p.OutputDir, err = paths.ResolveOutputDir("", p.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate parameters: %w", err)
	}

	logger, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg, _, _, err := engine.BuildRegistry(p, logger)
	if err != nil {
		return err
	}

	rows := make([]descriptorRow, 0, reg.Count())
	for id := types.PropertyID(0); int(id) < reg.Count(); id++ {
		d, ok := reg.FindByID(id)
		if !ok {
			continue
		}
		rows = append(rows, descriptorRow{
			ID:     int32(id),
			Name:   d.Name,
			Kind:   d.Kind.String(),
			Shape:  shapeString(d),
			Size:   d.SizeBytes,
			Module: moduleString(d.Module),
			Flags:  flagString(d.Flags),
		})
	}

	if propsJSON {
		out, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal descriptors: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%-4s %-24s %-8s %-10s %5s %-7s %s\n",
		"ID", "NAME", "KIND", "SHAPE", "SIZE", "MODULE", "FLAGS")
	for _, r := range rows {
		fmt.Printf("%-4d %-24s %-8s %-10s %5d %-7s %s\n",
			r.ID, r.Name, r.Kind, r.Shape, r.Size, r.Module, r.Flags)
	}
	return nil
}
