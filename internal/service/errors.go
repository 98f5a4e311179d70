// Package service holds the application services between the HTTP handlers
// and the stores: project/version lifecycle, feedback generation, example
// essays, settings and access-code auth.
package service

import (
	"errors"
	"fmt"

	"github.com/inkgrade/essay-api/internal/store"
)

// Common sentinel errors surfaced by services. Handlers map these to HTTP
// status codes.
var (
	// ErrProjectNotFound indicates the project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrVersionNotFound indicates the essay version does not exist.
	ErrVersionNotFound = errors.New("essay version not found")

	// ErrFeedbackNotFound indicates the feedback record does not exist.
	ErrFeedbackNotFound = errors.New("feedback not found")

	// ErrExampleNotFound indicates no example essay exists for the version.
	ErrExampleNotFound = errors.New("example essay not found")

	// ErrLogNotFound indicates the prompt log entry does not exist.
	ErrLogNotFound = errors.New("prompt log not found")

	// ErrGenerationInProgress indicates feedback generation is already
	// running for the version.
	ErrGenerationInProgress = errors.New("feedback generation already in progress")

	// ErrInvalidAccessCode indicates the submitted access code is wrong.
	ErrInvalidAccessCode = errors.New("invalid access code")

	// ErrInvalidToken indicates the bearer token is missing, expired or forged.
	ErrInvalidToken = errors.New("invalid token")
)

// ServiceError wraps errors from the service layer with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_project")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapError maps store-level sentinels to their service-level counterparts
// and wraps everything else with operation context.
func wrapError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrProjectNotFound):
		return ErrProjectNotFound
	case errors.Is(err, store.ErrVersionNotFound):
		return ErrVersionNotFound
	case errors.Is(err, store.ErrFeedbackNotFound):
		return ErrFeedbackNotFound
	case errors.Is(err, store.ErrExampleNotFound):
		return ErrExampleNotFound
	case errors.Is(err, store.ErrLogNotFound):
		return ErrLogNotFound
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
