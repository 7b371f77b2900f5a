package output

// Schema DDL for the output database. Runs accumulate: opening an
// existing database appends a new run row instead of rebuilding.
const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    snapshots INTEGER NOT NULL,
    galaxies INTEGER NOT NULL
);`

	createGalaxyProperties = `CREATE TABLE IF NOT EXISTS galaxy_properties (
    run_id TEXT NOT NULL,
    snap INTEGER NOT NULL,
    galaxy_index INTEGER NOT NULL,
    name TEXT NOT NULL,
    kind INTEGER NOT NULL,
    elems INTEGER NOT NULL,
    value BLOB NOT NULL,
    PRIMARY KEY (run_id, snap, galaxy_index, name),
    FOREIGN KEY (run_id) REFERENCES runs(run_id)
);`
)

// schemaDDL lists the statements executed on open, in order.
var schemaDDL = []string{
	createRuns,
	createGalaxyProperties,
}
