package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/store"
)

// Page-size bounds for listing recent statuses. An out-of-range or
// non-positive limit is replaced by DefaultStatusPageSize.
const (
	DefaultStatusPageSize = 5
	MinStatusPageSize     = 1
	MaxStatusPageSize     = 100
)

// StatusService is the status tracker: pure lifecycle storage and query,
// no business logic. It implements task.StatusTransitioner.
type StatusService struct {
	statuses store.StatusStore
	logger   *slog.Logger
}

// NewStatusService creates a new StatusService.
func NewStatusService(statuses store.StatusStore, logger *slog.Logger) *StatusService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusService{
		statuses: statuses,
		logger:   logger.With("component", "status_service"),
	}
}

// Create initializes a pending status for a newly submitted task.
func (s *StatusService) Create(ctx context.Context, ownerID uuid.UUID, taskType domain.TaskType, subjectID uuid.UUID) (*domain.ProcessingStatus, error) {
	status, err := domain.NewProcessingStatus(ownerID, taskType, subjectID)
	if err != nil {
		return nil, NewServiceError("create_status", "invalid status", err)
	}

	if err := s.statuses.Create(ctx, status); err != nil {
		s.logger.Error("failed to create processing status",
			"owner_id", ownerID,
			"task_type", taskType,
			"error", err)
		return nil, NewServiceError("create_status", "failed to save status", err)
	}

	return status, nil
}

// Transition moves a status along its lifecycle. The store enforces
// monotonicity: a terminal state or an out-of-order step yields
// domain.ErrInvalidTransition.
func (s *StatusService) Transition(ctx context.Context, id uuid.UUID, next domain.Status, errorMessage string) (*domain.ProcessingStatus, error) {
	status, err := s.statuses.Transition(ctx, id, next, errorMessage)
	if err != nil {
		s.logger.Error("status transition failed",
			"status_id", id,
			"target_status", next,
			"error", err)
		return nil, err
	}

	s.logger.Debug("status transitioned",
		"status_id", id,
		"status", next)
	return status, nil
}

// GetByID retrieves a status by ID.
// Returns store.ErrStatusNotFound if absent.
func (s *StatusService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingStatus, error) {
	return s.statuses.GetByID(ctx, id)
}

// GetLatest retrieves the most recent statuses, newest first. A limit
// outside [MinStatusPageSize, MaxStatusPageSize] is replaced by
// DefaultStatusPageSize.
func (s *StatusService) GetLatest(ctx context.Context, limit int) ([]*domain.ProcessingStatus, error) {
	if limit < MinStatusPageSize || limit > MaxStatusPageSize {
		limit = DefaultStatusPageSize
	}
	return s.statuses.GetLatest(ctx, limit)
}
