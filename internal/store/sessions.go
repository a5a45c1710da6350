package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRow is a persisted browser session. Credential is sealed; Profile
// is the JSON snapshot of the signed-in user.
type SessionRow struct {
	ID         string
	Credential []byte
	Profile    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaveSession writes both values of a session in one statement.
func SaveSession(ctx context.Context, db *sql.DB, id string, credential []byte, profile string) error {
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx,
		`INSERT INTO sessions (id, credential, profile, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     credential = excluded.credential,
		     profile = excluded.profile,
		     updated_at = excluded.updated_at`,
		id, credential, profile, now, now,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// GetSession returns a session, or nil if there is none.
func GetSession(ctx context.Context, db *sql.DB, id string) (*SessionRow, error) {
	var s SessionRow
	err := db.QueryRowContext(ctx,
		`SELECT id, credential, profile, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Credential, &s.Profile, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes both values of a session.
func DeleteSession(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// PurgeSessions deletes sessions not updated since before and returns how
// many were removed.
func PurgeSessions(ctx context.Context, db *sql.DB, before time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged sessions: %w", err)
	}
	return n, nil
}

// CountSessions returns the number of stored sessions.
func CountSessions(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}
