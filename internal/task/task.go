// Package task implements the background task-processing subsystem:
// the Task contract, the worker-pool Runner that owns the status
// lifecycle, and the extraction and generation tasks themselves.
package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
)

// Task represents a unit of background work to be processed.
// A task's ID is the ID of the ProcessingStatus row created for it at
// submission time; the Runner uses it to drive lifecycle transitions.
type Task interface {
	// ID returns the ID of the task's processing status record.
	ID() uuid.UUID

	// Type returns the task type identifier.
	Type() domain.TaskType

	// OwnerID returns the ID of the user the task runs on behalf of.
	OwnerID() uuid.UUID

	// SubjectID returns the ID of the entity the task operates on
	// (document, freeform entry or generated resume placeholder).
	SubjectID() uuid.UUID

	// Execute runs the task logic. Errors are recorded on the status
	// record by the Runner and never propagate to the submitter.
	Execute(ctx context.Context) error
}

// StatusTransitioner drives lifecycle transitions on processing statuses.
// Implemented by the status service.
type StatusTransitioner interface {
	// Transition moves the status to next, recording errorMessage.
	Transition(ctx context.Context, id uuid.UUID, next domain.Status, errorMessage string) (*domain.ProcessingStatus, error)
}

// Notifier delivers one-shot terminal events to subscribers.
// Implemented by the notification hub.
type Notifier interface {
	// Notify pushes the terminal event for the given subject.
	Notify(subjectID uuid.UUID, status domain.Status, errorMessage string)
}

// SkillReconciler deduplicates and persists skill names for an owner.
// Implemented by the skill service.
type SkillReconciler interface {
	// AddSkills upserts each name, collapsing case-insensitive repeats.
	AddSkills(ctx context.Context, ownerID uuid.UUID, names []string) ([]*domain.SkillRecord, error)
}
