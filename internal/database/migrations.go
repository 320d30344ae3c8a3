package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS raw_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    external_id TEXT UNIQUE NOT NULL,
    source_type TEXT NOT NULL,
    source_name TEXT NOT NULL,
    is_target INTEGER DEFAULT 0,
    url TEXT,
    author TEXT,
    rating REAL,
    text TEXT NOT NULL DEFAULT '',
    created_at TEXT,
    collected_at TEXT DEFAULT (datetime('now')),
    text_fetched INTEGER DEFAULT 0,
    analyzed INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS collection_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ran_at TEXT DEFAULT (datetime('now')),
    total_found INTEGER DEFAULT 0,
    new_items INTEGER DEFAULT 0,
    duplicates INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_raw_items_source ON raw_items(source_type);
CREATE INDEX IF NOT EXISTS idx_raw_items_analyzed ON raw_items(analyzed);
CREATE INDEX IF NOT EXISTS idx_raw_items_external ON raw_items(external_id);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
