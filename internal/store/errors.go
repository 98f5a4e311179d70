package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrProjectNotFound, ErrFeedbackNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second feedback row for the same version).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist or the update violates constraints.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrProjectNotFound indicates that the requested project does not exist.
	ErrProjectNotFound = fmt.Errorf("%w: project", ErrNotFound)

	// ErrVersionNotFound indicates that the requested essay version does not exist.
	ErrVersionNotFound = fmt.Errorf("%w: essay version", ErrNotFound)

	// ErrFeedbackNotFound indicates that the requested feedback does not exist.
	ErrFeedbackNotFound = fmt.Errorf("%w: feedback", ErrNotFound)

	// ErrExampleNotFound indicates that the requested example essay does not exist.
	ErrExampleNotFound = fmt.Errorf("%w: example essay", ErrNotFound)

	// ErrSettingNotFound indicates that the requested setting key does not exist.
	ErrSettingNotFound = fmt.Errorf("%w: setting", ErrNotFound)

	// ErrLogNotFound indicates that the requested prompt log does not exist.
	ErrLogNotFound = fmt.Errorf("%w: prompt log", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrFeedbackExists indicates that the essay version already has a
	// feedback row. Feedback is one-to-one with versions.
	ErrFeedbackExists = fmt.Errorf("%w: feedback for version", ErrDuplicate)

	// ErrExampleExists indicates that an example essay already exists for the
	// given project and version number.
	ErrExampleExists = fmt.Errorf("%w: example essay for version", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "project", "feedback")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given details.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
