package catalog

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultPIN = "1234"

var ErrUnauthorized = errors.New("unauthorized")

// Authorizer gates catalog administration behind a PIN. A bcrypt hash takes
// precedence over a plain PIN.
type Authorizer struct {
	pin  []byte
	hash []byte
}

// NewAuthorizer falls back to DefaultPIN when neither pin nor hash is set.
func NewAuthorizer(pin, hash string) *Authorizer {
	if hash != "" {
		return &Authorizer{hash: []byte(hash)}
	}
	if pin == "" {
		pin = DefaultPIN
	}
	return &Authorizer{pin: []byte(pin)}
}

func (a *Authorizer) Check(pin string) error {
	if a.hash != nil {
		if err := bcrypt.CompareHashAndPassword(a.hash, []byte(pin)); err != nil {
			return ErrUnauthorized
		}
		return nil
	}
	if subtle.ConstantTimeCompare(a.pin, []byte(pin)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// HashPIN produces a value suitable for ADMIN_PIN_HASH.
func HashPIN(pin string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(h), nil
}
