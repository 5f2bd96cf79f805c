package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/store"
)

// PostgresFreeformStore implements store.FreeformStore using PostgreSQL.
type PostgresFreeformStore struct {
	db store.DBTX
}

// NewPostgresFreeformStore creates a new PostgresFreeformStore.
func NewPostgresFreeformStore(db store.DBTX) *PostgresFreeformStore {
	return &PostgresFreeformStore{db: db}
}

// WithTx returns a new store instance that uses the provided transaction.
func (s *PostgresFreeformStore) WithTx(tx *sql.Tx) store.FreeformStore {
	return &PostgresFreeformStore{db: tx}
}

// Create saves a new freeform entry to the store.
func (s *PostgresFreeformStore) Create(ctx context.Context, entry *domain.FreeformEntry) error {
	query := `
		INSERT INTO freeform_entries (id, owner_id, raw_text, linked_employment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.RawText,
		entry.LinkedEmploymentID,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert freeform entry: %w", err)
	}

	return nil
}

// GetByID retrieves a freeform entry by its unique ID.
func (s *PostgresFreeformStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FreeformEntry, error) {
	query := `
		SELECT id, owner_id, raw_text, linked_employment_id, created_at, updated_at
		FROM freeform_entries
		WHERE id = $1
	`

	var entry domain.FreeformEntry
	var linkedID uuid.NullUUID

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.RawText,
		&linkedID,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err, store.ErrFreeformNotFound)
	}

	if linkedID.Valid {
		lid := linkedID.UUID
		entry.LinkedEmploymentID = &lid
	}

	return &entry, nil
}

// Update saves changes to an existing entry.
func (s *PostgresFreeformStore) Update(ctx context.Context, entry *domain.FreeformEntry) error {
	query := `
		UPDATE freeform_entries
		SET raw_text = $1, linked_employment_id = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		entry.RawText,
		entry.LinkedEmploymentID,
		time.Now().UTC(),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update freeform entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrFreeformNotFound
	}

	return nil
}
