package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/pkg/config"
)

var testCfg = config.JWTConfig{
	Secret:            "unit-test-secret",
	Issuer:            "mboashop-test",
	ExpirationMinutes: 30,
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	payload := AccessTokenPayload{
		UserID:  uuid.New(),
		Email:   "ariane@example.cm",
		IsAdmin: true,
	}
	token, err := MintAccessToken(testCfg, now, payload)
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	claims, err := ParseAccessToken(testCfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != payload.UserID || claims.Email != payload.Email || !claims.IsAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Issuer != testCfg.Issuer {
		t.Fatalf("expected issuer %q, got %q", testCfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected a generated jti")
	}
	wantExpiry := now.Add(30 * time.Minute)
	if claims.ExpiresAt.Time.Sub(wantExpiry).Abs() > time.Second {
		t.Fatalf("unexpected expiry %s", claims.ExpiresAt.Time)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	t.Parallel()

	now := time.Now()
	payload := AccessTokenPayload{UserID: uuid.New()}

	tests := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
	}{
		{"missing secret", config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, payload},
		{"missing issuer", config.JWTConfig{Secret: "x", ExpirationMinutes: 1}, payload},
		{"non positive expiration", config.JWTConfig{Secret: "x", Issuer: "x"}, payload},
		{"nil user id", testCfg, AccessTokenPayload{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, now, tc.payload); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseAccessTokenRejections(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	payload := AccessTokenPayload{UserID: uuid.New(), Email: "ariane@example.cm"}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := MintAccessToken(testCfg, now, payload)
		if err != nil {
			t.Fatalf("MintAccessToken error: %v", err)
		}
		other := testCfg
		other.Secret = "a-different-secret"
		if _, err := ParseAccessToken(other, token); err == nil {
			t.Fatalf("expected signature failure")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := MintAccessToken(testCfg, now, payload)
		if err != nil {
			t.Fatalf("MintAccessToken error: %v", err)
		}
		other := testCfg
		other.Issuer = "someone-else"
		if _, err := ParseAccessToken(other, token); err == nil {
			t.Fatalf("expected issuer mismatch")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := MintAccessToken(testCfg, now.Add(-2*time.Hour), payload)
		if err != nil {
			t.Fatalf("MintAccessToken error: %v", err)
		}
		if _, err := ParseAccessToken(testCfg, token); err == nil {
			t.Fatalf("expected expiry failure")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := ParseAccessToken(testCfg, "not.a.jwt"); err == nil {
			t.Fatalf("expected parse failure")
		}
	})
}
