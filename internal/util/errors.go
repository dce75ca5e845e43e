package util

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotAssigned    = errors.New("user is not assigned to this set")
	ErrInvalidReorder     = errors.New("invalid reorder request")

	// ErrSchemaBug marks programming errors inside the field engine
	// (unknown field name, composite arity mismatch). Never shown to
	// users as recoverable input problems.
	ErrSchemaBug = errors.New("field schema bug")
)
