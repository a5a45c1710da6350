// Package store holds the SQL queries over the local database.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Setting keys for generated secrets.
const (
	CookieSecretKey  = "cookie_secret"
	CredentialKeyKey = "credential_key"
)

// GetSecret returns the hex-encoded secret stored under key, generating
// size random bytes on first use. INSERT OR IGNORE + re-SELECT keeps
// concurrent first starts consistent.
func GetSecret(ctx context.Context, db *sql.DB, key string, size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating %s: %w", key, err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		key, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}

	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", key, err)
	}

	return secret, nil
}

// GetCookieSecret returns the HMAC secret for session cookies.
func GetCookieSecret(ctx context.Context, db *sql.DB) (string, error) {
	return GetSecret(ctx, db, CookieSecretKey, 32)
}

// GetCredentialKey returns the 32-byte key that seals stored credentials.
func GetCredentialKey(ctx context.Context, db *sql.DB) ([32]byte, error) {
	var key [32]byte
	s, err := GetSecret(ctx, db, CredentialKeyKey, len(key))
	if err != nil {
		return key, err
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(key) {
		return key, fmt.Errorf("stored %s is malformed", CredentialKeyKey)
	}
	copy(key[:], raw)
	return key, nil
}
