package db

import (
	"database/sql"
	"fmt"
)

// migrations upgrade the schema one version at a time. The applied version
// is kept in PRAGMA user_version. Only append.
var migrations = []string{
	// 1: purge scans sessions by age.
	`CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at)`,
	// 2: expired cookie revocations are swept by expiry.
	`CREATE INDEX IF NOT EXISTS idx_revoked_cookies_expires_at ON revoked_cookies(expires_at)`,
}

// Version returns the schema version recorded in the database.
func Version(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Migrate creates the schema and applies migrations newer than the stored
// version, each in its own transaction.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	current, err := Version(db)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", current, len(migrations))
	}

	for i := current; i < len(migrations); i++ {
		if err := apply(db, i+1, migrations[i]); err != nil {
			return err
		}
	}
	return nil
}

func apply(db *sql.DB, version int, stmt string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting migration %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("running migration %d: %w", version, err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, version)); err != nil {
		return fmt.Errorf("recording migration %d: %w", version, err)
	}
	return tx.Commit()
}
