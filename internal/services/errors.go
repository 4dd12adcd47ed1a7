package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken is returned by Signup when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for any local login failure: unknown
	// email, Google-only account, or wrong password. Callers must not be able
	// to tell these apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPredictorNotConfigured is returned when no predictor endpoint is set.
	ErrPredictorNotConfigured = errors.New("predictor service not configured")
)

// PredictorUnavailableError wraps the underlying cause after all prediction
// attempts have failed.
type PredictorUnavailableError struct {
	Cause error
}

func (e *PredictorUnavailableError) Error() string {
	return fmt.Sprintf("predictor unavailable: %v", e.Cause)
}

func (e *PredictorUnavailableError) Unwrap() error {
	return e.Cause
}

// StorageError wraps database failures so handlers can map them to a generic
// 500 while logging the full cause server-side.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
