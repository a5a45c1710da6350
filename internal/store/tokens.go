package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevokeCookie blocks a session cookie's JTI until the cookie would have
// expired. Revoking twice keeps the later expiry.
func RevokeCookie(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO revoked_cookies (jti, expires_at) VALUES (?, ?)
		ON CONFLICT(jti) DO UPDATE SET expires_at = MAX(expires_at, excluded.expires_at)`,
		jti, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("revoking cookie %s: %w", jti, err)
	}
	return nil
}

// IsCookieRevoked reports whether jti is revoked. Revocations past their
// expiry no longer count; the cookie fails signature validation by then.
func IsCookieRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_cookies WHERE jti = ? AND expires_at >= ?)`,
		jti, time.Now().UTC(),
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking cookie revocation: %w", err)
	}
	return revoked, nil
}

// SweepRevokedCookies drops revocations that expired before now.
func SweepRevokedCookies(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM revoked_cookies WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("sweeping revoked cookies: %w", err)
	}
	return res.RowsAffected()
}
