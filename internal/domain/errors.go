// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidProjectStatus is returned when a project status is not valid.
	ErrInvalidProjectStatus = errors.New("invalid project status")

	// ErrInvalidFeedbackStatus is returned when a feedback status is not valid.
	ErrInvalidFeedbackStatus = errors.New("invalid feedback status")

	// ErrInvalidExamType is returned when an exam type is not one of the
	// supported values.
	ErrInvalidExamType = errors.New("invalid exam type")

	// ErrInvalidScore is returned when a sub-score falls outside the 0-9 band.
	ErrInvalidScore = errors.New("score must be between 0 and 9")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
