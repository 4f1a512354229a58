package service

import "errors"

var (
	// ErrAttemptNotFound is returned when an attempt id cannot be resolved.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrQuizNotFound is returned when a quiz id cannot be resolved.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAlreadyAttempted blocks retakes once a prior attempt has completed.
	ErrAlreadyAttempted = errors.New("quiz already attempted, retakes are not allowed")
	// ErrAttemptExpired indicates the attempt's time budget has elapsed.
	ErrAttemptExpired = errors.New("attempt has expired")
	// ErrAttemptNotActive indicates a submit against a terminal attempt.
	ErrAttemptNotActive = errors.New("attempt is no longer active")

	// ErrUsernameTaken and ErrEmailTaken reject duplicate registrations.
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already in use")
	// ErrInvalidCredentials is returned for unknown users and bad passwords alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserLocked is returned while a login lockout is in force.
	ErrUserLocked = errors.New("user is temporarily locked")
)
