package db

import (
	"database/sql"
	"fmt"
)

// schemaVersion is stored in PRAGMA user_version. A cache written by a
// different version is dropped and rebuilt; it only holds server copies.
const schemaVersion = 1

// Migrate brings the cache schema to the current version.
func Migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if current != 0 && current != schemaVersion {
		for _, stmt := range drops {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("dropping stale cache: %w", err)
			}
		}
	}
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("writing schema version: %w", err)
	}
	return nil
}

var drops = []string{
	`DROP TABLE IF EXISTS items`,
	`DROP TABLE IF EXISTS lists`,
	`DROP TABLE IF EXISTS list_summaries`,
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS list_summaries (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		item_count  INTEGER NOT NULL DEFAULT 0,
		sort_index  INTEGER NOT NULL DEFAULT 0,
		fetched_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lists (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		version     INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT,
		updated_at  TEXT,
		fetched_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id          TEXT PRIMARY KEY,
		list_id     TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		notes       TEXT,
		image_path  TEXT,
		position    INTEGER NOT NULL CHECK(position >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_list_position ON items(list_id, position)`,
}
