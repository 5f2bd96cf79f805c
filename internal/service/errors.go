// Package service contains the orchestration layer: the status tracker,
// the skill reconciler and the pipeline dispatcher.
package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the service layer
var (
	// ErrEmptySkillName indicates that a skill name normalized to nothing.
	ErrEmptySkillName = errors.New("skill name cannot be empty")

	// ErrQueueFull indicates that the task runner rejected a submission.
	ErrQueueFull = errors.New("task queue is full")
)

// ServiceError wraps errors from the service layer with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_document")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError wrapping err.
// Returns nil if err is nil.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
