// Package auth provides a high-level API for persisting and retrieving user credentials from the system keyring.
package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	service = "tubular-cli"
	user    = "access-token"
)

// SetToken persists the OAuth access token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken retrieves the OAuth access token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// DeleteToken removes the OAuth access token from the system keyring.
// Deleting a missing token is not an error.
func DeleteToken() error {
	if err := keyring.Delete(service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// Source reports the access token of the signed-in user.
type Source interface {
	Token() (token string, ok bool)
}

// Keyring is a Source backed by the system keyring.
type Keyring struct{}

// Token implements Source.
func (Keyring) Token() (string, bool) {
	token, err := GetToken()
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Static is a Source with a fixed token. An empty Static is unauthenticated.
type Static string

// Token implements Source.
func (s Static) Token() (string, bool) {
	return string(s), s != ""
}

// Authenticated reports whether src currently holds a token.
func Authenticated(src Source) bool {
	if src == nil {
		return false
	}
	_, ok := src.Token()
	return ok
}
