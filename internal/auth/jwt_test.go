package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, "session-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.SessionID != "session-1" {
		t.Errorf("expected session-1, got %q", claims.SessionID)
	}
	if claims.ID == "" {
		t.Error("expected a JTI")
	}
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	a, _ := GenerateToken("s", "session-1", time.Hour)
	b, _ := GenerateToken("s", "session-1", time.Hour)

	ca, err := ValidateToken("s", a)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := ValidateToken("s", b)
	if err != nil {
		t.Fatal(err)
	}
	if ca.ID == cb.ID {
		t.Error("expected distinct JTIs")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", "session-1", time.Hour)

	if _, err := ValidateToken("secret2", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{
		SessionID: "session-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateToken("s", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestValidateTokenWithoutSession(t *testing.T) {
	token, err := GenerateToken("s", "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateToken("s", token); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestTokenExpiryDefault(t *testing.T) {
	token, _ := GenerateToken("s", "session-1", 0)
	claims, err := ValidateToken("s", token)
	if err != nil {
		t.Fatal(err)
	}

	diff := claims.ExpiresAt.Time.Sub(time.Now().Add(CookieExpiry))
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiry off by %v", diff)
	}
}
