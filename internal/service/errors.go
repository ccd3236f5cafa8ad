package service

import "errors"

// Auth flow outcomes. Every expected failure is one of these sentinels so
// handlers can map them with errors.Is instead of matching message text.
var (
	// ErrAlreadyExists is returned when registration hits an email that is
	// already taken, whatever provider owns it.
	ErrAlreadyExists = errors.New("user with this email already exists")

	// ErrInvalidCredentials covers every way a password login can fail:
	// unknown email, non-local account, missing hash, wrong password. The
	// cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrProviderMismatch is returned when an OAuth sign-in arrives for an
	// email already bound to a different provider.
	ErrProviderMismatch = errors.New("email already registered with a different provider")

	// ErrAccountDeactivated is returned for valid credentials on an
	// inactive account.
	ErrAccountDeactivated = errors.New("account is deactivated")

	// ErrInvalidToken covers every way token verification can fail,
	// including a token whose subject no longer resolves to an account.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidProviderToken is returned when a Google or Apple ID token
	// fails provider-side verification.
	ErrInvalidProviderToken = errors.New("invalid provider token")

	// ErrUserNotFound is returned by user lookups outside the auth flows.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidInput is returned when a request fails semantic validation
	// (email format, username charset, password strength).
	ErrInvalidInput = errors.New("invalid input")
)
