package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sage-home/galaxykit/pkg/types"
)

// exportRecord is one JSONL line of an exported run. Decodable rows
// carry their typed elements under "values"; opaque payloads keep the
// raw bytes (base64 in JSON).
type exportRecord struct {
	Snap        int32  `json:"snap"`
	GalaxyIndex uint64 `json:"galaxy_index"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Values      any    `json:"values,omitempty"`
	Raw         []byte `json:"raw,omitempty"`
}

// ExportJSONL writes every property row of one run to a JSONL file,
// one record per row, ordered by snapshot, galaxy and name. The file
// is written atomically via a temp file and rename.
func (r *Reader) ExportJSONL(runID, path string) error {
	rows, err := r.ListRows(runID)
	if err != nil {
		return err
	}

	records := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		rec := exportRecord{
			Snap:        row.Snap,
			GalaxyIndex: row.GalaxyIndex,
			Name:        row.Name,
			Kind:        row.Kind.String(),
		}
		if v, err := DecodeRow(row.Kind, row.Elems, row.Data); err == nil {
			rec.Values = valueSlice(v)
		} else {
			rec.Raw = row.Data
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding export record: %w", err)
		}
		records = append(records, line)
	}

	return writeJSONL(path, records)
}

// valueSlice returns the populated element slice of a value.
func valueSlice(v *types.Value) any {
	switch v.Kind {
	case types.Float32:
		return v.F32
	case types.Float64:
		return v.F64
	case types.Int32:
		return v.I32
	case types.Int64:
		return v.I64
	case types.UInt64:
		return v.U64
	}
	return nil
}

// writeJSONL atomically writes records to a JSONL file using the
// temp-file, fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
