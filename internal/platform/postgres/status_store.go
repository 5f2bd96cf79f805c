package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/platform/logger"
	"github.com/vitaehq/vitae-api/internal/store"
)

// PostgresStatusStore implements store.StatusStore using PostgreSQL.
type PostgresStatusStore struct {
	db store.DBTX
}

// NewPostgresStatusStore creates a new PostgresStatusStore.
func NewPostgresStatusStore(db store.DBTX) *PostgresStatusStore {
	return &PostgresStatusStore{db: db}
}

// WithTx returns a new store instance that uses the provided transaction.
func (s *PostgresStatusStore) WithTx(tx *sql.Tx) store.StatusStore {
	return &PostgresStatusStore{db: tx}
}

// Create persists a new processing status.
func (s *PostgresStatusStore) Create(ctx context.Context, status *domain.ProcessingStatus) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO processing_statuses (id, owner_id, task_type, subject_id, status, started_at, completed_at, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		status.ID,
		status.OwnerID,
		status.TaskType,
		status.SubjectID,
		status.Status,
		status.StartedAt,
		status.CompletedAt,
		nullableString(status.ErrorMessage),
	)
	if err != nil {
		log.Error("failed to save processing status",
			"status_id", status.ID,
			"error", err)
		return fmt.Errorf("failed to save processing status: %w", err)
	}

	return nil
}

// GetByID retrieves a status by its unique ID.
func (s *PostgresStatusStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingStatus, error) {
	query := `
		SELECT id, owner_id, task_type, subject_id, status, started_at, completed_at, error_message
		FROM processing_statuses
		WHERE id = $1
	`

	status, err := scanStatus(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err, store.ErrStatusNotFound)
	}
	return status, nil
}

// Transition atomically moves a status to next using a compare-and-set
// on the required previous state, so concurrent transitions cannot
// regress the lifecycle or leave a terminal state.
func (s *PostgresStatusStore) Transition(ctx context.Context, id uuid.UUID, next domain.Status, errorMessage string) (*domain.ProcessingStatus, error) {
	log := logger.FromContext(ctx)

	var prev domain.Status
	switch next {
	case domain.StatusProcessing:
		prev = domain.StatusPending
	case domain.StatusCompleted, domain.StatusFailed:
		prev = domain.StatusProcessing
	default:
		return nil, domain.ErrInvalidStatus
	}

	var completedAt *time.Time
	if next.IsTerminal() {
		now := time.Now().UTC()
		completedAt = &now
	}

	query := `
		UPDATE processing_statuses
		SET status = $1, error_message = $2, completed_at = $3
		WHERE id = $4 AND status = $5
		RETURNING id, owner_id, task_type, subject_id, status, started_at, completed_at, error_message
	`

	status, err := scanStatus(s.db.QueryRowContext(ctx, query,
		next,
		nullableString(errorMessage),
		completedAt,
		id,
		prev,
	))
	if err == nil {
		return status, nil
	}
	if err != sql.ErrNoRows {
		log.Error("failed to transition processing status",
			"status_id", id,
			"target_status", next,
			"error", err)
		return nil, fmt.Errorf("failed to transition processing status: %w", err)
	}

	// No row matched: the status is missing, already terminal, or the
	// transition skips a step. Distinguish for the caller.
	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrInvalidTransition
}

// GetLatest retrieves up to limit statuses ordered by StartedAt descending.
func (s *PostgresStatusStore) GetLatest(ctx context.Context, limit int) ([]*domain.ProcessingStatus, error) {
	query := `
		SELECT id, owner_id, task_type, subject_id, status, started_at, completed_at, error_message
		FROM processing_statuses
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var statuses []*domain.ProcessingStatus
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status rows: %w", err)
	}

	return statuses, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatus(row rowScanner) (*domain.ProcessingStatus, error) {
	var status domain.ProcessingStatus
	var completedAt sql.NullTime
	var errorMessage sql.NullString

	if err := row.Scan(
		&status.ID,
		&status.OwnerID,
		&status.TaskType,
		&status.SubjectID,
		&status.Status,
		&status.StartedAt,
		&completedAt,
		&errorMessage,
	); err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		status.CompletedAt = &t
	}
	status.ErrorMessage = errorMessage.String

	return &status, nil
}

// nullableString maps an empty string to NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
