package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
)

// ListingStore defines read access to job listings. Listing management
// lives outside this service; the pipeline only loads by ID.
type ListingStore interface {
	// GetByID retrieves a job listing by its unique ID.
	// Returns ErrListingNotFound if the listing does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.JobListing, error)
}

// ResumeStore defines the interface for persisting generated resumes.
type ResumeStore interface {
	// Create saves a new generated resume placeholder to the store.
	Create(ctx context.Context, resume *domain.GeneratedResume) error

	// GetByID retrieves a generated resume by its unique ID.
	// Returns ErrResumeNotFound if the resume does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedResume, error)

	// UpdateContent stores the structured content produced by the
	// generation worker. Returns ErrResumeNotFound if the resume does
	// not exist.
	UpdateContent(ctx context.Context, id uuid.UUID, content json.RawMessage) error

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ResumeStore
}
