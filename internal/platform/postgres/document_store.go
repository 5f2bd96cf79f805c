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

// PostgresDocumentStore implements store.DocumentStore using PostgreSQL.
type PostgresDocumentStore struct {
	db store.DBTX
}

// NewPostgresDocumentStore creates a new PostgresDocumentStore.
func NewPostgresDocumentStore(db store.DBTX) *PostgresDocumentStore {
	return &PostgresDocumentStore{db: db}
}

// WithTx returns a new store instance that uses the provided transaction.
func (s *PostgresDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &PostgresDocumentStore{db: tx}
}

// Create persists a new uploaded document.
func (s *PostgresDocumentStore) Create(ctx context.Context, doc *domain.UploadedDocument) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO uploaded_documents (id, owner_id, title, raw_bytes, extracted_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.Title,
		doc.RawBytes,
		nullableString(doc.ExtractedText),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save document", "document_id", doc.ID, "error", err)
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by its unique ID.
func (s *PostgresDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.UploadedDocument, error) {
	query := `
		SELECT id, owner_id, title, raw_bytes, extracted_text, created_at, updated_at
		FROM uploaded_documents
		WHERE id = $1
	`

	var doc domain.UploadedDocument
	var extractedText sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.RawBytes,
		&extractedText,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err, store.ErrDocumentNotFound)
	}

	doc.ExtractedText = extractedText.String
	return &doc, nil
}

// UpdateExtractedText persists the text extracted from the raw bytes.
func (s *PostgresDocumentStore) UpdateExtractedText(ctx context.Context, id uuid.UUID, text string) error {
	query := `
		UPDATE uploaded_documents
		SET extracted_text = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, text, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update extracted text: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrDocumentNotFound
	}

	return nil
}
