package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	return string(h)
}

func TestStaticAuthenticator(t *testing.T) {
	a, err := NewStaticAuthenticator([]User{{Username: "asha", PasswordHash: mustHash(t, "s3cret")}})
	if err != nil {
		t.Fatalf("NewStaticAuthenticator failed: %v", err)
	}

	tests := []struct {
		name    string
		user    string
		pass    string
		wantErr error
	}{
		{"valid", "asha", "s3cret", nil},
		{"trims username", " asha ", "s3cret", nil},
		{"wrong password", "asha", "nope", ErrInvalidCredentials},
		{"unknown user", "ben", "s3cret", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Authenticate(context.Background(), tt.user, tt.pass)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authenticate(%q) error = %v; want %v", tt.user, err, tt.wantErr)
			}
		})
	}
}

func TestNewStaticAuthenticator_RejectsBadEntries(t *testing.T) {
	if _, err := NewStaticAuthenticator([]User{{Username: "", PasswordHash: mustHash(t, "x")}}); err == nil {
		t.Error("Expected error for empty username")
	}
	if _, err := NewStaticAuthenticator([]User{{Username: "asha", PasswordHash: "plaintext"}}); err == nil {
		t.Error("Expected error for non-bcrypt hash")
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")) != nil {
		t.Error("hash does not verify")
	}
}
