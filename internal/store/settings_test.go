package store

import (
	"context"
	"testing"

	"github.com/erazemk/unifind/internal/db"
)

func TestGetCookieSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	secret1, err := GetCookieSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	secret2, err := GetCookieSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestGetCredentialKey_IndependentOfCookieSecret(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cookie, err := GetCookieSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	key1, err := GetCredentialKey(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	key2, err := GetCredentialKey(ctx, database)
	if err != nil {
		t.Fatal(err)
	}

	if key1 != key2 {
		t.Fatal("expected credential key to persist")
	}
	if key1 == ([32]byte{}) {
		t.Fatal("expected non-zero credential key")
	}

	raw, err := GetSecret(ctx, database, CredentialKeyKey, 32)
	if err != nil {
		t.Fatal(err)
	}
	if raw == cookie {
		t.Fatal("expected distinct secrets per key")
	}
}
