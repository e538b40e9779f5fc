package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/fanplan/internal/common"
)

// ExpectedSchemaVersion is the schema version this build reads and writes.
// Migrate fails unless the database ends up exactly here.
const ExpectedSchemaVersion = 3

// Migration is one numbered schema step, applied inside a transaction.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					display_name TEXT NOT NULL,
					total_budget REAL NOT NULL DEFAULT 0,
					total_spent REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS followed_entities (
					user_id TEXT NOT NULL,
					entity_id TEXT NOT NULL,
					name TEXT NOT NULL,
					rank INTEGER NOT NULL,
					allocated REAL NOT NULL DEFAULT 0,
					spent REAL NOT NULL DEFAULT 0,
					followed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, entity_id),
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_followed_entities_entity ON followed_entities(entity_id)`,

				`CREATE TABLE IF NOT EXISTS purchases (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					entity_id TEXT NOT NULL,
					entity_name TEXT NOT NULL,
					category TEXT NOT NULL,
					amount REAL NOT NULL,
					purchased_at DATETIME NOT NULL,
					notes TEXT,
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_purchases_user_date ON purchases(user_id, purchased_at)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Add interaction log",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS interactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id TEXT NOT NULL,
					entity_name TEXT NOT NULL,
					kind TEXT NOT NULL CHECK (kind IN ('view', 'like', 'purchase', 'follow', 'search')),
					value REAL,
					occurred_at DATETIME NOT NULL,
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_interactions_user_time ON interactions(user_id, occurred_at)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Add key-value cache entries",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS cache_entries (
					key TEXT PRIMARY KEY,
					value BLOB NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, statements ...string) error {
	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}

// Migrate brings the schema up to ExpectedSchemaVersion, one transaction
// per pending step, tracking progress in PRAGMA user_version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return err
		}
		slog.Info("Applied migration", "version", m.Version, "description", m.Description)
	}

	if current, err = s.SchemaVersion(ctx); err != nil {
		return err
	}
	if current != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version %d, want %d", common.ErrDatabaseCorrupted, current, ExpectedSchemaVersion)
	}
	return nil
}

func (s *SQLiteStorage) apply(ctx context.Context, m Migration) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = m.Up(tx); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("migration %d: record version: %w", m.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: commit: %w", m.Version, err)
	}
	return nil
}

// SchemaVersion reports the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
