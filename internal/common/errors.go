// Package common defines shared constants and sentinel errors used across
// the timeline server and client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrBatchTooLarge   = errors.New("batch write exceeds provider limit")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Import errors.
	ErrNoEntries = errors.New("no entries found in file")

	// Background queue errors.
	ErrQueueRunning = errors.New("queue is already running")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
