package auth

import (
	"testing"
	"time"
)

func TestIssueVerify_Roundtrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret")

	token, err := ti.Issue("user-1", RoleManager)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := ti.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
	if claims.Role != RoleManager {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").Issue("user-1", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b").Verify(token); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	issuer.nowFunc = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, err := issuer.Issue("user-1", RoleCashier)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	verifier := NewTokenIssuer("test-secret")
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerify_JustInsideTTL(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	issuer.nowFunc = func() time.Time { return time.Now().Add(-TokenTTL + time.Minute) }

	token, err := issuer.Issue("user-1", RoleWaiter)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokenIssuer("test-secret").Verify(token); err != nil {
		t.Fatalf("token inside 7-day window rejected: %v", err)
	}
}

func TestHashCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatal("expected wrong password to fail")
	}
}
