package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskType identifies the kind of subject a processing status refers to.
// The subject reference is weak: it carries no referential-integrity
// guarantee across the three subject kinds.
type TaskType string

// Possible task type values
const (
	TaskTypeUploadedResume  TaskType = "uploaded_resume"
	TaskTypeGeneratedResume TaskType = "generated_resume"
	TaskTypeFreeformEntry   TaskType = "freeform_entry"
)

// Status represents the lifecycle state of an asynchronous task.
type Status string

// Possible status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ProcessingStatus tracks the lifecycle of one asynchronous task.
// Rows are never deleted; they serve as an audit trail.
type ProcessingStatus struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	TaskType     TaskType   `json:"task_type"`
	SubjectID    uuid.UUID  `json:"subject_id"`
	Status       Status     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// NewProcessingStatus creates a pending ProcessingStatus for the given
// owner, task type and subject. Returns an error if validation fails.
func NewProcessingStatus(ownerID uuid.UUID, taskType TaskType, subjectID uuid.UUID) (*ProcessingStatus, error) {
	ps := &ProcessingStatus{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		TaskType:  taskType,
		SubjectID: subjectID,
		Status:    StatusPending,
		StartedAt: time.Now().UTC(),
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}

	return ps, nil
}

// Validate checks if the ProcessingStatus has valid data.
func (ps *ProcessingStatus) Validate() error {
	if ps.ID == uuid.Nil {
		return ErrInvalidID
	}
	if ps.OwnerID == uuid.Nil {
		return ErrInvalidID
	}
	if ps.SubjectID == uuid.Nil {
		return ErrInvalidID
	}
	if !isValidTaskType(ps.TaskType) {
		return ErrInvalidTaskType
	}
	if !isValidStatus(ps.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsTerminal reports whether the status is completed or failed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal step.
// Transitions are monotonic: pending→processing→{completed|failed}, with
// no transition out of a terminal state and no skipping of processing.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Transition moves the status to next, recording the error message and
// setting CompletedAt when the new state is terminal.
// Returns ErrInvalidTransition if the step is not legal.
func (ps *ProcessingStatus) Transition(next Status, errorMessage string) error {
	if !isValidStatus(next) {
		return ErrInvalidStatus
	}
	if !ps.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	ps.Status = next
	ps.ErrorMessage = errorMessage
	if next.IsTerminal() {
		now := time.Now().UTC()
		ps.CompletedAt = &now
	}
	return nil
}

func isValidTaskType(t TaskType) bool {
	switch t {
	case TaskTypeUploadedResume, TaskTypeGeneratedResume, TaskTypeFreeformEntry:
		return true
	default:
		return false
	}
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}
