package models

import "errors"

// Domain errors shared by repositories, services and handlers.
var (
	// ErrDuplicateEmail indicates an account with the same email already exists.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated indicates a missing or unknown token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidRequest indicates an empty bulk selection.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)
