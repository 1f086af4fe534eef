package services

import "errors"

// Sentinel errors shared by the services. Handlers map these onto HTTP
// statuses; anything else is a 500.
var (
	// ErrNotFound: a referenced user, quest, dungeon or rank row does not
	// exist. Fatal to the enclosing transaction.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a uniqueness constraint rejected a write (duplicate
	// username/email, already-awarded title).
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials: login failed. Deliberately indistinguishable
	// between unknown user and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidArgument: a caller passed a value the engine does not
	// support (negative gains, zero ids).
	ErrInvalidArgument = errors.New("invalid argument")
)
