package auth

import (
	"testing"
	"time"

	"github.com/rizwanhussain01/EventHub/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", 30)

	token, expiresAt, err := manager.GenerateToken("user-1", domain.RoleOrganizer)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 29*time.Minute || remaining > 31*time.Minute {
		t.Fatalf("unexpected expiry %v from now", remaining)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
	if claims.Role != domain.RoleOrganizer {
		t.Fatalf("expected role %s, got %s", domain.RoleOrganizer, claims.Role)
	}
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenManager("secret-a", 30).GenerateToken("user-1", domain.RoleAttendee)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewTokenManager("secret-b", 30).ParseToken(token); err == nil {
		t.Fatal("expected parse failure for token signed with a different secret")
	}
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager("secret", 30).ParseToken("not-a-token"); err == nil {
		t.Fatal("expected parse failure for malformed token")
	}
}
