// Package output persists evolved galaxy snapshots to a SQLite
// database, one row per serializable property per galaxy. Property
// payloads are stored as the raw bytes produced by each descriptor's
// marshal callback, alongside enough shape metadata (kind, element
// count) to decode them without consulting a registry.
package output

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sage-home/galaxykit/pkg/registry"
	"github.com/sage-home/galaxykit/pkg/types"
)

var (
	// ErrWriterOpen is returned when opening an already-open writer.
	ErrWriterOpen = errors.New("output writer is already open")
	// ErrWriterClosed is returned by operations on a closed writer.
	ErrWriterClosed = errors.New("output writer is closed")
	// ErrNilRegistry is returned when WriteSnapshot is given no registry.
	ErrNilRegistry = errors.New("output writer requires a registry")
)

// RunMeta describes the run row recorded when the writer opens.
type RunMeta struct {
	Snapshots int // number of snapshots the run will write
	Galaxies  int // number of galaxies evolved per snapshot
}

// Writer owns the database connection for one run and writes
// snapshot rows under that run's id.
type Writer struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
	runID  string
	open   bool
	logger *zap.Logger
}

// NewWriter creates an unopened writer. A nil logger disables logging.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// RunID returns the identifier assigned when the writer opened, or
// the empty string before Open.
func (w *Writer) RunID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runID
}

// Open creates the database file if needed, applies the schema, and
// records a new run row. Returns ErrWriterOpen if already open.
func (w *Writer) Open(dbPath string, meta RunMeta) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.open {
		return ErrWriterOpen
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	runID := generateRunID()
	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(
		`INSERT INTO runs (run_id, created_at, snapshots, galaxies) VALUES (?, ?, ?, ?)`,
		runID, createdAt, meta.Snapshots, meta.Galaxies,
	)
	if err != nil {
		db.Close()
		return fmt.Errorf("recording run: %w", err)
	}

	w.db = db
	w.dbPath = dbPath
	w.runID = runID
	w.open = true

	w.logger.Info("output writer opened",
		zap.String("db", dbPath),
		zap.String("run_id", runID),
	)
	return nil
}

// Close releases the database connection. Idempotent: closing a
// closed writer is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.open {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	w.open = false
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// WriteSnapshot persists every serializable property of every galaxy
// for one snapshot and returns the number of rows written. Properties
// are materialized on demand, so a galaxy that never touched a
// property still writes its default value. Rows already present for
// the same snapshot are overwritten.
//
// Galaxies whose store cannot produce a property (detached, or
// attached before the property was registered) have that row skipped
// with a warning rather than aborting the run; database failures are
// returned.
func (w *Writer) WriteSnapshot(reg *registry.Registry, snap int32, galaxies []*types.Galaxy) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.open {
		return 0, ErrWriterClosed
	}
	if reg == nil {
		return 0, ErrNilRegistry
	}

	tx, err := w.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO galaxy_properties (run_id, snap, galaxy_index, name, kind, elems, value)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(run_id, snap, galaxy_index, name) DO UPDATE SET
             kind = excluded.kind,
             elems = excluded.elems,
             value = excluded.value`,
	)
	if err != nil {
		return 0, fmt.Errorf("preparing property insert: %w", err)
	}
	defer stmt.Close()

	total := reg.Count()
	rows := 0
	for _, g := range galaxies {
		if g == nil {
			continue
		}
		for id := types.PropertyID(0); int(id) < total; id++ {
			d, ok := reg.FindByID(id)
			if !ok {
				continue
			}
			if !d.Flags.Has(types.FlagSerialize) {
				continue
			}

			v, err := reg.GetOrCreate(g, id)
			if err != nil {
				w.logger.Warn("skipping property during snapshot write",
					zap.String("name", d.Name),
					zap.Uint64("galaxy_index", g.GalaxyIndex),
					zap.Error(err),
				)
				continue
			}

			data, err := d.Marshal(g, v)
			if err != nil {
				w.logger.Warn("skipping property that failed to marshal",
					zap.String("name", d.Name),
					zap.Uint64("galaxy_index", g.GalaxyIndex),
					zap.Error(err),
				)
				continue
			}

			elems := decodedElems(d.Kind, data)
			_, err = stmt.Exec(w.runID, snap, int64(g.GalaxyIndex), d.Name, int32(d.Kind), elems, data)
			if err != nil {
				return 0, fmt.Errorf("writing property %q: %w", d.Name, err)
			}
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing snapshot: %w", err)
	}

	w.logger.Debug("snapshot written",
		zap.Int32("snap", snap),
		zap.Int("galaxies", len(galaxies)),
		zap.Int("rows", rows),
	)
	return rows, nil
}

// decodedElems derives the element count from the payload size.
// Payloads produced by a custom codec that do not divide evenly are
// recorded with zero elements and kept as opaque bytes.
func decodedElems(kind types.Kind, data []byte) int {
	elemSize, err := kind.ElemSize()
	if err != nil || elemSize == 0 {
		return 0
	}
	if len(data)%elemSize != 0 {
		return 0
	}
	return len(data) / elemSize
}

// generateRunID returns a time-ordered UUID for a new run, falling
// back to a random UUID if v7 generation fails.
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
