package session

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/goCDEP/storage"
	"github.com/golang-jwt/jwt/v5"
)

func TestClaimsParsesWellFormedJWT(t *testing.T) {
	issued := time.Now().Add(-time.Minute).Truncate(time.Second)
	expires := time.Now().Add(15 * time.Minute).Truncate(time.Second)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	store := NewStore(storage.NewMemoryBackend())
	if err := store.SetSession(context.Background(), &User{ID: "u1"}, token, "rt"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	claims, ok := store.Claims()
	if !ok {
		t.Fatal("expected claims from a well-formed JWT")
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %q", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expiry %v, got %v", expires, claims.ExpiresAt)
	}
	if !claims.IssuedAt.Equal(issued) {
		t.Fatalf("expected issued-at %v, got %v", issued, claims.IssuedAt)
	}
}

func TestClaimsOpaqueTokens(t *testing.T) {
	store := NewStore(storage.NewMemoryBackend())

	if _, ok := store.Claims(); ok {
		t.Fatal("expected no claims without a token")
	}

	if err := store.SetSession(context.Background(), &User{ID: "u1"}, "opaque-token", "rt"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	if _, ok := store.Claims(); ok {
		t.Fatal("expected no claims for an opaque token")
	}
}
