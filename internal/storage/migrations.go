package storage

import (
	"database/sql"
	"fmt"
)

// A migration moves the cache database one schema version forward. Apply
// runs inside a transaction owned by the runner.
type migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

// cacheMigrations lists every schema version in apply order. New versions
// are appended; released entries are never edited.
var cacheMigrations = []migration{
	{Version: 1, Name: "restaurant_cache_schema", Apply: migrateV001},
}

// MigrationRunner brings a cheapeats database up to the current schema.
type MigrationRunner struct {
	db *sql.DB
}

func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

// Run configures connection pragmas, then applies every migration not yet
// recorded in schema_migrations. Safe to call on every startup.
func (r *MigrationRunner) Run() error {
	// The daemon reads the cache while background maintenance writes to it,
	// so the database runs in WAL mode with foreign keys enforced.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := r.db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	applied, err := r.appliedVersions()
	if err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}

	for _, m := range cacheMigrations {
		if applied[m.Version] {
			continue
		}
		if err := r.applyOne(m); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

func (r *MigrationRunner) appliedVersions() (map[int]bool, error) {
	rows, err := r.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// applyOne executes a migration and records it in the same transaction, so
// a failed migration leaves no bookkeeping behind.
func (r *MigrationRunner) applyOne(m migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.Apply(tx); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}
