// Inspect command dumps stored property rows from an output database.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sage-home/galaxykit/internal/output"
	"github.com/sage-home/galaxykit/internal/paths"
)

var (
	inspectDB     string
	inspectRun    string
	inspectSnap   int
	inspectExport string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump stored property rows from an output database",
	Long: `Inspect reads a previously written output database and prints stored
property rows with decoded values. With no --run it uses the most
recent run. --snap restricts output to one snapshot; --export writes
the selected run to a JSONL file instead of printing.

Example:
  galaxykit inspect --db output/galaxies.db
  galaxykit inspect --db output/galaxies.db --snap 2
  galaxykit inspect --db output/galaxies.db --export run.jsonl`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectDB, "db", "", "output database file (default: galaxies.db in the resolved output directory)")
	inspectCmd.Flags().StringVar(&inspectRun, "run", "", "run id (default: most recent)")
	inspectCmd.Flags().IntVar(&inspectSnap, "snap", -1, "restrict to one snapshot (-1 for all)")
	inspectCmd.Flags().StringVar(&inspectExport, "export", "", "write rows to a JSONL file instead of stdout")
}

func runInspect(cmd *cobra.Command, args []string) error {
	dbPath := inspectDB
	if dbPath == "" {
		dir, err := paths.ResolveOutputDir("", "")
		if err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}
		dbPath = filepath.Join(dir, "galaxies.db")
	}

	rd, err := output.OpenReader(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer rd.Close()

	runID := inspectRun
	if runID == "" {
		latest, err := rd.LatestRun()
		if err != nil {
			return fmt.Errorf("resolve run: %w", err)
		}
		runID = latest.RunID
	}

	if inspectExport != "" {
		if err := rd.ExportJSONL(runID, inspectExport); err != nil {
			return fmt.Errorf("export run: %w", err)
		}
		fmt.Printf("run %s exported to %s\n", runID, inspectExport)
		return nil
	}

	var rows []output.PropertyRow
	if inspectSnap >= 0 {
		rows, err = rd.ListSnapshot(runID, int32(inspectSnap))
	} else {
		rows, err = rd.ListRows(runID)
	}
	if err != nil {
		return fmt.Errorf("list rows: %w", err)
	}

	fmt.Printf("run %s: %d rows\n", runID, len(rows))
	for _, row := range rows {
		v, err := output.DecodeRow(row.Kind, row.Elems, row.Data)
		if err != nil {
			fmt.Printf("snap %3d galaxy %4d %-24s %-8s <opaque, %d bytes>\n",
				row.Snap, row.GalaxyIndex, row.Name, row.Kind, len(row.Data))
			continue
		}
		fmt.Printf("snap %3d galaxy %4d %-24s %-8s %v\n",
			row.Snap, row.GalaxyIndex, row.Name, row.Kind, valueElems(v))
	}
	return nil
}
