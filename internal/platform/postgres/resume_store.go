package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/store"
)

// PostgresListingStore implements store.ListingStore using PostgreSQL.
type PostgresListingStore struct {
	db store.DBTX
}

// NewPostgresListingStore creates a new PostgresListingStore.
func NewPostgresListingStore(db store.DBTX) *PostgresListingStore {
	return &PostgresListingStore{db: db}
}

// GetByID retrieves a job listing by its unique ID.
func (s *PostgresListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobListing, error) {
	query := `
		SELECT id, owner_id, title, company, description, created_at
		FROM job_listings
		WHERE id = $1
	`

	var listing domain.JobListing
	var company sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&listing.ID,
		&listing.OwnerID,
		&listing.Title,
		&company,
		&listing.Description,
		&listing.CreatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err, store.ErrListingNotFound)
	}

	listing.Company = company.String

	return &listing, nil
}

// PostgresResumeStore implements store.ResumeStore using PostgreSQL.
type PostgresResumeStore struct {
	db store.DBTX
}

// NewPostgresResumeStore creates a new PostgresResumeStore.
func NewPostgresResumeStore(db store.DBTX) *PostgresResumeStore {
	return &PostgresResumeStore{db: db}
}

// WithTx returns a new store instance that uses the provided transaction.
func (s *PostgresResumeStore) WithTx(tx *sql.Tx) store.ResumeStore {
	return &PostgresResumeStore{db: tx}
}

// Create saves a new generated resume placeholder to the store.
func (s *PostgresResumeStore) Create(ctx context.Context, resume *domain.GeneratedResume) error {
	query := `
		INSERT INTO generated_resumes (id, owner_id, source_job_description_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		resume.ID,
		resume.OwnerID,
		resume.SourceJobDescriptionID,
		nullableJSON(resume.Content),
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generated resume: %w", err)
	}

	return nil
}

// GetByID retrieves a generated resume by its unique ID.
func (s *PostgresResumeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedResume, error) {
	query := `
		SELECT id, owner_id, source_job_description_id, content, created_at, updated_at
		FROM generated_resumes
		WHERE id = $1
	`

	var resume domain.GeneratedResume
	var content []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&resume.ID,
		&resume.OwnerID,
		&resume.SourceJobDescriptionID,
		&content,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err, store.ErrResumeNotFound)
	}

	if len(content) > 0 {
		resume.Content = json.RawMessage(content)
	}

	return &resume, nil
}

// UpdateContent stores the structured content produced by the generation
// worker.
func (s *PostgresResumeStore) UpdateContent(ctx context.Context, id uuid.UUID, content json.RawMessage) error {
	query := `
		UPDATE generated_resumes
		SET content = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, []byte(content), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update resume content: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrResumeNotFound
	}

	return nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
