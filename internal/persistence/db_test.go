package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/redrock/internal/engine"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadExport(t *testing.T) {
	db := testDB(t)

	eng := engine.New(engine.Config{Seed: 99})
	require.NoError(t, eng.StepDays(10))
	export := eng.ExportChronicle()

	id, err := db.SaveExport(export)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	records, err := db.RecentExports(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Red Rock Territory", records[0].Settlement)
	assert.Equal(t, int64(99), records[0].Seed)
	assert.Equal(t, export.Summary.Day, records[0].Day)
	assert.NotEmpty(t, records[0].SummaryJSON)

	rows, err := db.ChronicleFor(id)
	require.NoError(t, err)
	assert.Len(t, rows, len(export.Chronicle))
	assert.Equal(t, export.Chronicle[0].Description, rows[0].Description)
}

func TestRecentExportsOrder(t *testing.T) {
	db := testDB(t)

	for _, seed := range []int64{1, 2, 3} {
		eng := engine.New(engine.Config{Seed: seed})
		require.NoError(t, eng.StepDays(2))
		_, err := db.SaveExport(eng.ExportChronicle())
		require.NoError(t, err)
	}

	records, err := db.RecentExports(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(3), records[0].Seed, "newest first")
	assert.Equal(t, int64(2), records[1].Seed)
}

func TestChronicleForUnknownExport(t *testing.T) {
	db := testDB(t)
	rows, err := db.ChronicleFor(12345)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "sub", "archive.db"))
	assert.Error(t, err)
}
