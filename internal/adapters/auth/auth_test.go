package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/domain"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in plain text")
	}
	if !h.Verify(hash, "s3cret") {
		t.Fatal("expected match")
	}
	if h.Verify(hash, "S3cret") {
		t.Fatal("expected mismatch")
	}
}

func TestJWT_RoundTripAndExpiry(t *testing.T) {
	j, err := NewJWTIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	tok, err := j.Issue(domain.Principal{UserID: 42, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	p, err := j.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != 42 || p.Role != domain.RoleAdmin {
		t.Fatalf("unexpected principal: %+v", p)
	}

	j.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := j.Verify(tok); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	a, _ := NewJWTIssuer("a", time.Hour)
	b, _ := NewJWTIssuer("b", time.Hour)
	tok, _ := a.Issue(domain.Principal{UserID: 1, Role: domain.RoleUser})
	if _, err := b.Verify(tok); err == nil {
		t.Fatal("expected signature mismatch")
	}
	if _, err := NewJWTIssuer("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
