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

	// ErrInvalidTaskType is returned when a task type is not one of the
	// known subject kinds.
	ErrInvalidTaskType = errors.New("invalid task type")

	// ErrInvalidStatus is returned when a processing status value is not valid.
	ErrInvalidStatus = errors.New("invalid processing status")

	// ErrInvalidTransition is returned when a status change would leave a
	// terminal state or skip a step in the lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotOwned is returned when an entity is not owned by the caller.
	ErrNotOwned = errors.New("entity not owned by caller")
)
