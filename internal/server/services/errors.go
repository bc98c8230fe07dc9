package services

import "errors"

var (
	// login
	ErrLoginFailUsernameNotFound    = errors.New("login failed: username not found")
	ErrLoginFailUserHasNoPassword   = errors.New("login failed: user has no password")
	ErrLoginFailPasswordNotMatching = errors.New("login failed: password not matching")

	// account
	ErrAccountCreationPasswordTooWeak = errors.New("account creation failed: password too weak")
	ErrUsernameAlreadyTaken           = errors.New("account creation failed: username already taken")
	ErrUpdatePasswordNotMatching      = errors.New("password update failed: old password not matching")
	ErrUpdatePasswordTooWeak          = errors.New("password update failed: password too weak")

	// input
	ErrInvalidInput = errors.New("invalid input")

	ErrActorNotAllowed = errors.New("actor not allowed")
)
