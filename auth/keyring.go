// Package auth stores the optional bearer token for the download service in the system keyring.
package auth

import (
	"errors"

	"github.com/ytgrab-cli/ytgrab/constant"
	"github.com/zalando/go-keyring"
)

const user = "service-token"

// SetToken persists the token.
func SetToken(token string) error {
	return keyring.Set(constant.App, user, token)
}

// Token returns the stored token, or "" when none was saved.
func Token() (string, error) {
	token, err := keyring.Get(constant.App, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// DeleteToken forgets the token. Deleting a missing token is not an error.
func DeleteToken() error {
	err := keyring.Delete(constant.App, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
