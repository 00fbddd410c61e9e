package auth

import (
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "pw123" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword("pw123", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	token, err := tm.Generate(7, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 7 || claims.Email != "a@x.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ExpiresAt != nil {
		t.Error("zero TTL should issue a non-expiring token")
	}
}

func TestTokenWithTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Generate(1, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected an expiry claim")
	}
	if until := time.Until(claims.ExpiresAt.Time); until < 59*time.Minute || until > time.Hour {
		t.Errorf("expiry %v not about an hour out", until)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", 0).Generate(1, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("secret-b", 0).Parse(token); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := NewTokenManager("s", 0).Parse("not.a.token"); err == nil {
		t.Error("garbage token was accepted")
	}
}
