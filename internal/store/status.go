package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
)

// StatusStore defines the interface for persisting processing statuses.
// Statuses are append-only apart from lifecycle transitions; they are
// never deleted.
type StatusStore interface {
	// Create saves a new processing status to the store.
	Create(ctx context.Context, status *domain.ProcessingStatus) error

	// GetByID retrieves a status by its unique ID.
	// Returns ErrStatusNotFound if the status does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingStatus, error)

	// Transition atomically moves a status to next, recording errorMessage
	// and setting the completion timestamp when next is terminal.
	// Returns domain.ErrInvalidTransition if the current state does not
	// allow the move, and ErrStatusNotFound if the status does not exist.
	Transition(ctx context.Context, id uuid.UUID, next domain.Status, errorMessage string) (*domain.ProcessingStatus, error)

	// GetLatest retrieves up to limit statuses ordered by StartedAt
	// descending. The caller is responsible for clamping limit.
	GetLatest(ctx context.Context, limit int) ([]*domain.ProcessingStatus, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StatusStore
}
