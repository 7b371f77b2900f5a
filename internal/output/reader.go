package output

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/sage-home/galaxykit/pkg/types"
)

var (
	// ErrRunNotFound is returned when a run id has no row.
	ErrRunNotFound = errors.New("run not found")
	// ErrRowNotFound is returned when no property row matches a query.
	ErrRowNotFound = errors.New("property row not found")
	// ErrOpaqueValue is returned when a stored payload cannot be
	// decoded into a typed value.
	ErrOpaqueValue = errors.New("stored value is opaque")
)

// RunInfo is one row of the runs table.
type RunInfo struct {
	RunID     string
	CreatedAt string
	Snapshots int
	Galaxies  int
}

// PropertyRow is one stored property payload with its shape metadata.
type PropertyRow struct {
	Snap        int32
	GalaxyIndex uint64
	Name        string
	Kind        types.Kind
	Elems       int
	Data        []byte
}

// Reader queries a previously written output database.
type Reader struct {
	db *sql.DB
}

// OpenReader opens an existing output database for querying.
func OpenReader(dbPath string) (*Reader, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("locating database: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &Reader{db: db}, nil
}

// Close releases the database connection.
func (r *Reader) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// ListRuns returns every recorded run, newest first. Run ids are
// time-ordered UUIDs, so they break ties between runs created within
// the same second.
func (r *Reader) ListRuns() ([]RunInfo, error) {
	rows, err := r.db.Query(
		`SELECT run_id, created_at, snapshots, galaxies FROM runs
         ORDER BY created_at DESC, run_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.RunID, &info.CreatedAt, &info.Snapshots, &info.Galaxies); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// LatestRun returns the most recently created run.
func (r *Reader) LatestRun() (RunInfo, error) {
	var info RunInfo
	err := r.db.QueryRow(
		`SELECT run_id, created_at, snapshots, galaxies FROM runs
         ORDER BY created_at DESC, run_id DESC LIMIT 1`,
	).Scan(&info.RunID, &info.CreatedAt, &info.Snapshots, &info.Galaxies)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, ErrRunNotFound
	}
	if err != nil {
		return RunInfo{}, fmt.Errorf("querying latest run: %w", err)
	}
	return info, nil
}

// ListRows returns every property row of one run ordered by snapshot,
// galaxy and name.
func (r *Reader) ListRows(runID string) ([]PropertyRow, error) {
	rows, err := r.db.Query(
		`SELECT snap, galaxy_index, name, kind, elems, value
         FROM galaxy_properties WHERE run_id = ?
         ORDER BY snap, galaxy_index, name`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing property rows: %w", err)
	}
	defer rows.Close()

	var out []PropertyRow
	for rows.Next() {
		row, err := scanPropertyRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property rows: %w", err)
	}
	return out, nil
}

// ListSnapshot returns the property rows of one snapshot of one run.
func (r *Reader) ListSnapshot(runID string, snap int32) ([]PropertyRow, error) {
	rows, err := r.db.Query(
		`SELECT snap, galaxy_index, name, kind, elems, value
         FROM galaxy_properties WHERE run_id = ? AND snap = ?
         ORDER BY galaxy_index, name`,
		runID, snap,
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot rows: %w", err)
	}
	defer rows.Close()

	var out []PropertyRow
	for rows.Next() {
		row, err := scanPropertyRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}
	return out, nil
}

// ReadProperty loads one stored property and decodes it back into a
// typed value. Returns ErrRowNotFound when the row does not exist and
// ErrOpaqueValue when the payload was stored without a decodable
// shape.
func (r *Reader) ReadProperty(runID string, snap int32, galaxyIndex uint64, name string) (*types.Value, error) {
	var (
		kindRaw int32
		elems   int
		data    []byte
	)
	err := r.db.QueryRow(
		`SELECT kind, elems, value FROM galaxy_properties
         WHERE run_id = ? AND snap = ? AND galaxy_index = ? AND name = ?`,
		runID, snap, int64(galaxyIndex), name,
	).Scan(&kindRaw, &elems, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %q: %w", name, err)
	}
	return DecodeRow(types.Kind(kindRaw), elems, data)
}

// DecodeRow rebuilds a typed value from stored shape metadata and raw
// payload bytes.
func DecodeRow(kind types.Kind, elems int, data []byte) (*types.Value, error) {
	if elems == 0 && len(data) > 0 {
		return nil, ErrOpaqueValue
	}
	v, err := types.NewValue(kind, elems)
	if err != nil {
		return nil, fmt.Errorf("rebuilding stored value: %w", err)
	}
	if err := v.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("decoding stored value: %w", err)
	}
	return v, nil
}

// scanPropertyRow scans the common column set shared by the listing
// queries.
func scanPropertyRow(rows *sql.Rows) (PropertyRow, error) {
	var (
		row     PropertyRow
		kindRaw int32
		gi      int64
	)
	if err := rows.Scan(&row.Snap, &gi, &row.Name, &kindRaw, &row.Elems, &row.Data); err != nil {
		return PropertyRow{}, fmt.Errorf("scanning property row: %w", err)
	}
	row.GalaxyIndex = uint64(gi)
	row.Kind = types.Kind(kindRaw)
	return row, nil
}
