package crypt

import (
	"crypto/subtle"
	"unicode"
)

// PasswordScheme is the version tag written in front of every stored hash.
const PasswordScheme = "01"

// HashPassword returns the stored representation "#01#<signature>".
func HashPassword(key []byte, content, salt string) (string, error) {
	sig, err := Sign(key, content, salt)
	if err != nil {
		return "", err
	}
	return "#" + PasswordScheme + "#" + sig, nil
}

// VerifyPassword recomputes the hash for the candidate and compares it with
// stored in constant time.
func VerifyPassword(key []byte, content, salt, stored string) error {
	candidate, err := HashPassword(key, content, salt)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// CheckPasswordSafety requires at least one lowercase letter, one uppercase
// letter, one digit and one character that is neither.
func CheckPasswordSafety(pwd string) error {
	var lower, upper, digit, special bool
	for _, r := range pwd {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsNumber(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}
	if lower && upper && digit && special {
		return nil
	}
	return ErrWeakPassword
}
