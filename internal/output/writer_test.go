// Unit tests for the snapshot writer, reader, and JSONL export.
package output

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sage-home/galaxykit/pkg/registry"
	"github.com/sage-home/galaxykit/pkg/types"
)

// serializableDesc builds a descriptor wired to the standard binary
// codecs, the shape module-owned output properties use.
func serializableDesc(name string, kind types.Kind, arrayLen int) types.Descriptor {
	elemSize, _ := kind.ElemSize()
	d := types.Descriptor{
		Name:      name,
		SizeBytes: elemSize,
		Kind:      kind,
		Module:    0,
		Flags:     types.FlagSerialize | types.FlagZeroInit,
		Marshal:   types.BinaryMarshaler(kind),
		Unmarshal: types.BinaryUnmarshaler(kind),
	}
	if arrayLen > 0 {
		d.Array = true
		d.ArrayLen = arrayLen
		d.SizeBytes = elemSize * arrayLen
	}
	return d
}

// setupWriter opens a writer on a fresh database file.
func setupWriter(t *testing.T, meta RunMeta) (*Writer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "galaxies.db")
	w := NewWriter(zaptest.NewLogger(t))
	require.NoError(t, w.Open(dbPath, meta))
	t.Cleanup(func() { w.Close() })
	return w, dbPath
}

// setupReader opens a reader on an existing database file.
func setupReader(t *testing.T, dbPath string) *Reader {
	t.Helper()
	rd, err := OpenReader(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { rd.Close() })
	return rd
}

// setupRegistry builds a registry with two serializable properties and
// one that stays out of the output.
func setupRegistry(t *testing.T) (*registry.Registry, types.PropertyID, types.PropertyID) {
	t.Helper()
	reg := registry.New()

	spin, err := reg.Register(serializableDesc("Spin", types.Float32, 0))
	require.NoError(t, err)
	vec, err := reg.Register(serializableDesc("SpinVector", types.Float32, 3))
	require.NoError(t, err)

	scratch := serializableDesc("Scratch", types.Float64, 0)
	scratch.Flags = types.FlagZeroInit
	scratch.Marshal = nil
	scratch.Unmarshal = nil
	_, err = reg.Register(scratch)
	require.NoError(t, err)

	return reg, spin, vec
}

func TestWriterLifecycle(t *testing.T) {
	w, dbPath := setupWriter(t, RunMeta{Snapshots: 4, Galaxies: 2})
	assert.NotEmpty(t, w.RunID())

	err := w.Open(dbPath, RunMeta{})
	assert.ErrorIs(t, err, ErrWriterOpen)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.WriteSnapshot(registry.New(), 0, nil)
	assert.ErrorIs(t, err, ErrWriterClosed)
}

func TestWriteSnapshotNilRegistry(t *testing.T) {
	w, _ := setupWriter(t, RunMeta{})
	_, err := w.WriteSnapshot(nil, 0, nil)
	assert.ErrorIs(t, err, ErrNilRegistry)
}

func TestWriteSnapshotRoundTrip(t *testing.T) {
	w, dbPath := setupWriter(t, RunMeta{Snapshots: 1, Galaxies: 1})
	reg, spin, vec := setupRegistry(t)

	g := &types.Galaxy{GalaxyIndex: 7}
	require.NoError(t, reg.Attach(g))
	require.True(t, registry.Set(reg, g, spin, float32(0.42)))
	for i, f := range []float32{1, 2, 3} {
		require.True(t, registry.SetAt(reg, g, vec, i, f))
	}

	rows, err := w.WriteSnapshot(reg, 0, []*types.Galaxy{g})
	require.NoError(t, err)
	assert.Equal(t, 2, rows) // Spin and SpinVector; Scratch stays out
	require.NoError(t, w.Close())

	rd := setupReader(t, dbPath)

	v, err := rd.ReadProperty(w.RunID(), 0, 7, "Spin")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.42}, v.F32)

	v, err = rd.ReadProperty(w.RunID(), 0, 7, "SpinVector")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, v.F32)

	// The property without FlagSerialize writes no row.
	_, err = rd.ReadProperty(w.RunID(), 0, 7, "Scratch")
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestWriteSnapshotMaterializesDefaults(t *testing.T) {
	w, dbPath := setupWriter(t, RunMeta{})
	reg, _, _ := setupRegistry(t)

	// The galaxy never touches any property; the writer materializes
	// defaults so every serializable property still appears.
	g := &types.Galaxy{GalaxyIndex: 0}
	require.NoError(t, reg.Attach(g))

	_, err := w.WriteSnapshot(reg, 2, []*types.Galaxy{g})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rd := setupReader(t, dbPath)
	v, err := rd.ReadProperty(w.RunID(), 2, 0, "Spin")
	require.NoError(t, err)
	assert.Equal(t, []float32{0}, v.F32)

	v, err = rd.ReadProperty(w.RunID(), 2, 0, "SpinVector")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0}, v.F32)
}

func TestWriteSnapshotOverwrites(t *testing.T) {
	w, dbPath := setupWriter(t, RunMeta{})
	reg, spin, _ := setupRegistry(t)

	g := &types.Galaxy{GalaxyIndex: 1}
	require.NoError(t, reg.Attach(g))

	require.True(t, registry.Set(reg, g, spin, float32(1.0)))
	_, err := w.WriteSnapshot(reg, 0, []*types.Galaxy{g})
	require.NoError(t, err)

	require.True(t, registry.Set(reg, g, spin, float32(2.0)))
	_, err = w.WriteSnapshot(reg, 0, []*types.Galaxy{g})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rd := setupReader(t, dbPath)
	v, err := rd.ReadProperty(w.RunID(), 0, 1, "Spin")
	require.NoError(t, err)
	assert.Equal(t, []float32{2.0}, v.F32)
}

func TestWriteSnapshotSkipsDetachedGalaxy(t *testing.T) {
	w, dbPath := setupWriter(t, RunMeta{})
	reg, spin, _ := setupRegistry(t)

	attached := &types.Galaxy{GalaxyIndex: 0}
	require.NoError(t, reg.Attach(attached))
	require.True(t, registry.Set(reg, attached, spin, float32(0.5)))

	detached := &types.Galaxy{GalaxyIndex: 1}

	rows, err := w.WriteSnapshot(reg, 0, []*types.Galaxy{attached, detached, nil})
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	require.NoError(t, w.Close())

	rd := setupReader(t, dbPath)
	_, err = rd.ReadProperty(w.RunID(), 0, 0, "Spin")
	assert.NoError(t, err)
	_, err = rd.ReadProperty(w.RunID(), 0, 1, "Spin")
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestReaderRuns(t *testing.T) {
	w1, dbPath := setupWriter(t, RunMeta{Snapshots: 4, Galaxies: 8})
	require.NoError(t, w1.Close())

	w2 := NewWriter(zaptest.NewLogger(t))
	require.NoError(t, w2.Open(dbPath, RunMeta{Snapshots: 2, Galaxies: 1}))
	require.NoError(t, w2.Close())

	rd := setupReader(t, dbPath)

	runs, err := rd.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, w2.RunID(), runs[0].RunID)
	assert.Equal(t, w1.RunID(), runs[1].RunID)
	assert.Equal(t, 4, runs[1].Snapshots)
	assert.Equal(t, 8, runs[1].Galaxies)

	latest, err := rd.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, w2.RunID(), latest.RunID)
}

func TestLatestRunEmpty(t *testing.T) {
	w, dbPath := setupWriter(t, RunMeta{})
	require.NoError(t, w.Close())

	// Remove the only run row to leave an empty table.
	rd := setupReader(t, dbPath)
	_, err := rd.db.Exec(`DELETE FROM runs`)
	require.NoError(t, err)

	_, err = rd.LatestRun()
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestOpenReaderMissingFile(t *testing.T) {
	_, err := OpenReader(filepath.Join(t.TempDir(), "absent.db"))
	assert.Error(t, err)
}

func TestListSnapshot(t *testing.T) {
	w, dbPath := setupWriter(t, RunMeta{})
	reg, spin, _ := setupRegistry(t)

	g := &types.Galaxy{GalaxyIndex: 3}
	require.NoError(t, reg.Attach(g))
	require.True(t, registry.Set(reg, g, spin, float32(1.5)))

	_, err := w.WriteSnapshot(reg, 0, []*types.Galaxy{g})
	require.NoError(t, err)
	_, err = w.WriteSnapshot(reg, 1, []*types.Galaxy{g})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rd := setupReader(t, dbPath)
	rows, err := rd.ListSnapshot(w.RunID(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2) // Spin and SpinVector
	for _, row := range rows {
		assert.Equal(t, int32(1), row.Snap)
		assert.Equal(t, uint64(3), row.GalaxyIndex)
	}
}

func TestDecodeRowOpaque(t *testing.T) {
	_, err := DecodeRow(types.Float32, 0, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrOpaqueValue)
}

func TestDecodeRowSizeMismatch(t *testing.T) {
	_, err := DecodeRow(types.Float64, 2, make([]byte, 8))
	assert.ErrorIs(t, err, types.ErrCodecSize)
}

func TestExportJSONL(t *testing.T) {
	w, dbPath := setupWriter(t, RunMeta{})
	reg, spin, vec := setupRegistry(t)

	g := &types.Galaxy{GalaxyIndex: 2}
	require.NoError(t, reg.Attach(g))
	require.True(t, registry.Set(reg, g, spin, float32(0.25)))
	for i, f := range []float32{4, 5, 6} {
		require.True(t, registry.SetAt(reg, g, vec, i, f))
	}

	_, err := w.WriteSnapshot(reg, 0, []*types.Galaxy{g})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rd := setupReader(t, dbPath)
	exportPath := filepath.Join(t.TempDir(), "run.jsonl")
	require.NoError(t, rd.ExportJSONL(w.RunID(), exportPath))

	f, err := os.Open(exportPath)
	require.NoError(t, err)
	defer f.Close()

	type record struct {
		Snap        int32     `json:"snap"`
		GalaxyIndex uint64    `json:"galaxy_index"`
		Name        string    `json:"name"`
		Kind        string    `json:"kind"`
		Values      []float64 `json:"values"`
	}

	var records []record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())

	// Rows export ordered by snap, galaxy and name.
	require.Len(t, records, 2)
	assert.Equal(t, "Spin", records[0].Name)
	assert.Equal(t, "float32", records[0].Kind)
	assert.Equal(t, []float64{0.25}, records[0].Values)
	assert.Equal(t, "SpinVector", records[1].Name)
	assert.Equal(t, []float64{4, 5, 6}, records[1].Values)
	assert.Equal(t, uint64(2), records[1].GalaxyIndex)
}
