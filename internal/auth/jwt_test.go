package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndValidateToken(t *testing.T) {
	token, err := IssueToken("admin", "test-secret")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := ValidateToken(token, "test-secret")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("username: got %q, want %q", claims.Username, "admin")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("admin", "secret-a")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := ValidateToken(token, "secret-b"); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token", "secret"); err == nil {
		t.Fatal("expected validation failure for garbage input")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}

	if !CheckPassword("hunter2", "", string(hash)) {
		t.Error("correct password rejected against hash")
	}
	if CheckPassword("wrong", "", string(hash)) {
		t.Error("wrong password accepted against hash")
	}

	// Plaintext comparison only applies when no hash is configured
	if !CheckPassword("plain", "plain", "") {
		t.Error("correct plaintext password rejected")
	}
	if CheckPassword("plain", "plain", string(hash)) {
		t.Error("hash must take precedence over plaintext")
	}
	if CheckPassword("", "", "") {
		t.Error("empty password must never authenticate")
	}
}

func TestExtractBearerToken(t *testing.T) {
	if got := ExtractBearerToken("Bearer abc123"); got != "abc123" {
		t.Errorf("got %q, want %q", got, "abc123")
	}
	if got := ExtractBearerToken("abc123"); got != "" {
		t.Errorf("got %q, want empty for missing prefix", got)
	}
	if got := ExtractBearerToken(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
