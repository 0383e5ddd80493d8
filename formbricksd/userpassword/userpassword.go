// Package userpassword hashes and validates user passwords.
package userpassword

import (
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/xerrors"
)

// hashCost is a balance between login latency and resistance to
// offline brute force. bcrypt.DefaultCost is 10.
const hashCost = 10

// Hash generates a hash for the provided plaintext password.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", xerrors.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks a plaintext password against a stored hash. It returns
// whether the password matched. An error is returned only when the stored
// hash is malformed.
func Compare(hashed, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	if err == nil {
		return true, nil
	}
	if xerrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, xerrors.Errorf("compare password: %w", err)
}
