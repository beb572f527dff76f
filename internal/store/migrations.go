package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all Notor tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		created  TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		email    TEXT NOT NULL DEFAULT '',
		pass     TEXT NOT NULL,
		role     TEXT NOT NULL DEFAULT 'user'
	)`,

	`CREATE TABLE IF NOT EXISTS notes (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		created TEXT NOT NULL,
		title   TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		name    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS notes_tags (
		note_id INTEGER NOT NULL REFERENCES notes(id),
		tag_id  INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (note_id, tag_id)
	)`,

	// One session record per subject. The primary key is what enforces the
	// at-most-one-live-session invariant.
	`CREATE TABLE IF NOT EXISTS claims (
		sub  TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		exp  INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_user_id ON tags(user_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_user_name ON tags(user_id, name)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_tags_tag_id ON notes_tags(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_claims_exp ON claims(exp)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
