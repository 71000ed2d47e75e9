package token

import (
	"errors"
	"testing"
	"time"

	"github.com/utsavhq/utsav/internal/model"
)

const testSecret = "test-secret"

func testUser() *model.User {
	return &model.User{ID: "user-123", Email: "asha@college.edu"}
}

func TestGenerateAndValidate(t *testing.T) {
	srv := NewService(testSecret, time.Hour)

	tok, err := srv.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := srv.Validate(tok)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, "user-123")
	}
	if claims.Email != "asha@college.edu" {
		t.Errorf("claims.Email = %q, want %q", claims.Email, "asha@college.edu")
	}
}

func TestValidateExpired(t *testing.T) {
	srv := NewService(testSecret, -time.Minute)

	tok, err := srv.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := srv.Validate(tok); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	tok, err := NewService(testSecret, time.Hour).Generate(testUser())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	other := NewService("different-secret", time.Hour)
	if _, err := other.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	srv := NewService(testSecret, time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := srv.Validate(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestValidateTampered(t *testing.T) {
	srv := NewService(testSecret, time.Hour)

	tok, err := srv.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	tampered := tok[:len(tok)-2] + "xx"
	if _, err := srv.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
