package auth

import (
	"errors"
	"fmt"

	"github.com/user/stockpile/backend/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

const msgPasswordTooLong = "Password must be at most 72 bytes"

// HashPassword returns the salted bcrypt hash of password. bcrypt ignores
// input past 72 bytes, so longer passwords are rejected as a validation error.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.NewValidation(msgPasswordTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash. A hash
// that cannot be parsed is an error, not a mismatch.
func CheckPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("stored hash unusable: %w", err)
	}
}
