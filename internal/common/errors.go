// Package common defines sentinel errors and small helpers shared by the
// authgate packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Persistence errors.
	ErrNotFound    = errors.New("credential record not found")
	ErrCorruptData = errors.New("credential record is corrupt")

	// Input errors, recovered by re-prompting.
	ErrValidation = errors.New("validation error")
	ErrMismatch   = errors.New("credentials do not match")

	// Budget errors, recovered by the reset path.
	ErrAttemptsExhausted = errors.New("attempts exhausted")

	// User interrupt at a prompt.
	ErrCancelled = errors.New("cancelled")

	// Configuration errors.
	ErrUnknownStorage = errors.New("unknown storage backend")
	ErrUnknownHasher  = errors.New("unknown hasher")
)
