// Package auth checks viewer credentials for the login page.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator verifies a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// User is a login entry with a bcrypt password hash.
type User struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// StaticAuthenticator checks credentials against a fixed user table.
type StaticAuthenticator struct {
	users map[string][]byte
}

func NewStaticAuthenticator(users []User) (*StaticAuthenticator, error) {
	a := &StaticAuthenticator{users: make(map[string][]byte, len(users))}
	for _, u := range users {
		name := strings.TrimSpace(u.Username)
		if name == "" {
			return nil, fmt.Errorf("auth: user with empty username")
		}
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			return nil, fmt.Errorf("auth: user %q: invalid password hash: %w", name, err)
		}
		a.users[name] = []byte(u.PasswordHash)
	}
	return a, nil
}

func (a *StaticAuthenticator) Authenticate(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hash, ok := a.users[strings.TrimSpace(username)]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces a hash suitable for User.PasswordHash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
