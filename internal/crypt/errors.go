// Package crypt holds the signing primitive shared by password storage and
// web tokens, plus the password and token codecs built on top of it.
package crypt

import "errors"

var (
	// signing
	ErrKeyFailure = errors.New("crypt: key failure")

	// password
	ErrPasswordMismatch = errors.New("crypt: password mismatch")
	ErrWeakPassword     = errors.New("crypt: password too weak")

	// token decoding
	ErrInvalidFormat        = errors.New("crypt: token invalid format")
	ErrCannotDecodeIdentity = errors.New("crypt: token cannot decode identity")
	ErrCannotDecodeExpiry   = errors.New("crypt: token cannot decode expiry")

	// token verification
	ErrSignatureMismatch = errors.New("crypt: token signature mismatch")
	ErrTimeNotISO        = errors.New("crypt: token expiry is not RFC3339")
	ErrExpired           = errors.New("crypt: token expired")
)
