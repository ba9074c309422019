package session

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Gate decides whether a password unlocks a session.
type Gate interface {
	Check(password string) bool
}

// PasswordGate compares against a single shared secret stored as a
// bcrypt hash. The zero value is open and accepts any password.
type PasswordGate struct {
	hash []byte
}

// NewPasswordGate hashes password. An empty password yields an open gate.
func NewPasswordGate(password string) (*PasswordGate, error) {
	if password == "" {
		return &PasswordGate{}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &PasswordGate{hash: hash}, nil
}

// NewPasswordGateFromHash uses an existing bcrypt hash.
func NewPasswordGateFromHash(hash string) (*PasswordGate, error) {
	if hash == "" {
		return nil, errors.New("password hash is empty")
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}

	return &PasswordGate{hash: []byte(hash)}, nil
}

func (g *PasswordGate) Open() bool {
	return g == nil || len(g.hash) == 0
}

func (g *PasswordGate) Check(password string) bool {
	if g.Open() {
		return true
	}

	return bcrypt.CompareHashAndPassword(g.hash, []byte(password)) == nil
}
