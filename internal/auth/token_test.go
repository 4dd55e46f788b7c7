package auth

import (
	"testing"
	"time"
)

func TestTokenRoundtrip(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	raw, err := tokens.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	id, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id != 42 {
		t.Errorf("user id = %d, want 42", id)
	}
}

func TestTokenRejects(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	if _, err := tokens.Parse(""); err == nil {
		t.Error("empty token accepted")
	}
	if _, err := tokens.Parse("not.a.jwt"); err == nil {
		t.Error("garbage token accepted")
	}

	other, err := NewTokens("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	raw, err := other.Generate(7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := tokens.Parse(raw); err == nil {
		t.Error("token signed with a different secret accepted")
	}

	if _, err := tokens.Generate(0); err == nil {
		t.Error("zero user id accepted")
	}
}

func TestNewTokensValidation(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Error("empty secret accepted")
	}
	if _, err := NewTokens("s", 0); err == nil {
		t.Error("zero ttl accepted")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "secret1"); err != nil {
		t.Errorf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password accepted")
	}
}
