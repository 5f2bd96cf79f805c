package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
)

// EducationStore defines the interface for persisting education records.
type EducationStore interface {
	// CreateAll bulk-inserts education records.
	CreateAll(ctx context.Context, records []*domain.EducationRecord) error

	// GetByOwner retrieves all education records owned by the given user.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.EducationRecord, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) EducationStore
}

// EmploymentStore defines the interface for persisting employment records.
type EmploymentStore interface {
	// CreateAll bulk-inserts employment records.
	CreateAll(ctx context.Context, records []*domain.EmploymentRecord) error

	// GetByID retrieves an employment record by its unique ID.
	// Returns ErrEmploymentNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EmploymentRecord, error)

	// GetByOwner retrieves all employment records owned by the given user.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.EmploymentRecord, error)

	// Update saves changes to an existing employment record.
	// Returns ErrEmploymentNotFound if the record does not exist.
	Update(ctx context.Context, record *domain.EmploymentRecord) error

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) EmploymentStore
}

// SkillStore defines the interface for persisting skill records.
// Uniqueness is enforced per owner on the normalized skill name.
type SkillStore interface {
	// FindByNormalizedName retrieves the skill whose normalized name
	// matches the given comparison key for the owner.
	// Returns ErrNotFound if no such skill exists.
	FindByNormalizedName(ctx context.Context, ownerID uuid.UUID, key string) (*domain.SkillRecord, error)

	// InsertIfAbsent atomically inserts the skill unless one with the
	// same normalized name already exists for the owner, in which case
	// the existing record is returned unchanged. The insert-or-read is a
	// single atomic step so concurrent writers cannot create duplicates.
	InsertIfAbsent(ctx context.Context, skill *domain.SkillRecord) (*domain.SkillRecord, error)

	// GetByOwner retrieves all skills owned by the given user.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.SkillRecord, error)
}
