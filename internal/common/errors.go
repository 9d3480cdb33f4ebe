// Package common defines shared constants and sentinel errors used across
// the revision service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Write rejected because the row belongs to another user.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrItemDoesNotExist marks a broken precondition: an operation was asked
	// to write into an item that is not there. It is never a user-facing
	// "not found".
	ErrItemDoesNotExist = errors.New("item does not exist")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
