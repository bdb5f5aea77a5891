package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesCacheTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"list_summaries", "lists", "items"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
	var idx string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_items_list_position'`).Scan(&idx))

	var version int
	require.NoError(t, db.QueryRow(`PRAGMA user_version`).Scan(&version))
	assert.Equal(t, schemaVersion, version)
}

func TestMigrate_ForeignKeysCascade(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO lists (id, title, fetched_at) VALUES ('l1', 'Groceries', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO items (id, list_id, title, position) VALUES ('i1', 'l1', 'Milk', 0)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO items (id, list_id, title, position) VALUES ('i2', 'missing', 'Eggs', 0)`)
	assert.Error(t, err, "orphan item rejected")

	_, err = db.Exec(`DELETE FROM lists WHERE id = 'l1'`)
	require.NoError(t, err)
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_RebuildsStaleCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE items (id TEXT PRIMARY KEY, legacy TEXT)`)
	require.NoError(t, err)
	_, err = raw.Exec(`PRAGMA user_version = 99`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO lists (id, title, fetched_at) VALUES ('l1', 'T', 'now')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO items (id, list_id, title, position) VALUES ('i1', 'l1', 'x', 0)`)
	assert.NoError(t, err, "items table rebuilt with the current columns")
}

func TestOpenDB_FileUsesWAL(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
