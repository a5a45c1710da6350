package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/erazemk/unifind/internal/model"
	"github.com/erazemk/unifind/internal/store"
)

// Record is what a browser session persists: the backend credential and a
// snapshot of the signed-in user's profile. Both are written and cleared
// together.
type Record struct {
	Credential string
	Profile    *model.User
}

// Complete reports whether both values are present.
func (r Record) Complete() bool {
	return r.Credential != "" && r.Profile != nil
}

// Storage persists session records.
type Storage interface {
	// Load returns the record for id and whether one exists.
	Load(ctx context.Context, id string) (Record, bool, error)
	// Save writes both values of rec.
	Save(ctx context.Context, id string, rec Record) error
	// Clear removes both values.
	Clear(ctx context.Context, id string) error
}

// SQLiteStorage keeps sessions in the local database.
type SQLiteStorage struct {
	db     *sql.DB
	sealer *Sealer
}

// NewSQLiteStorage returns a Storage backed by db.
func NewSQLiteStorage(db *sql.DB, sealer *Sealer) *SQLiteStorage {
	return &SQLiteStorage{db: db, sealer: sealer}
}

// Load implements Storage. A record that cannot be decoded is reported as
// absent so the session falls back to signed out.
func (s *SQLiteStorage) Load(ctx context.Context, id string) (Record, bool, error) {
	row, err := store.GetSession(ctx, s.db, id)
	if err != nil {
		return Record{}, false, err
	}
	if row == nil {
		return Record{}, false, nil
	}
	rec, err := decode(s.sealer, row.Credential, row.Profile)
	if err != nil {
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Save implements Storage.
func (s *SQLiteStorage) Save(ctx context.Context, id string, rec Record) error {
	box, profile, err := encode(s.sealer, rec)
	if err != nil {
		return err
	}
	return store.SaveSession(ctx, s.db, id, box, profile)
}

// Clear implements Storage.
func (s *SQLiteStorage) Clear(ctx context.Context, id string) error {
	return store.DeleteSession(ctx, s.db, id)
}

func encode(sealer *Sealer, rec Record) ([]byte, string, error) {
	box, err := sealer.Seal([]byte(rec.Credential))
	if err != nil {
		return nil, "", err
	}
	profile, err := json.Marshal(rec.Profile)
	if err != nil {
		return nil, "", fmt.Errorf("encoding profile: %w", err)
	}
	return box, string(profile), nil
}

func decode(sealer *Sealer, box []byte, profile string) (Record, error) {
	cred, err := sealer.Open(box)
	if err != nil {
		return Record{}, err
	}
	var u *model.User
	if err := json.Unmarshal([]byte(profile), &u); err != nil {
		return Record{}, fmt.Errorf("decoding profile: %w", err)
	}
	return Record{Credential: string(cred), Profile: u}, nil
}
