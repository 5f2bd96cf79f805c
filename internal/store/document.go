package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
)

// DocumentStore defines the interface for persisting uploaded documents.
type DocumentStore interface {
	// Create saves a new uploaded document to the store.
	Create(ctx context.Context, doc *domain.UploadedDocument) error

	// GetByID retrieves a document by its unique ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UploadedDocument, error)

	// UpdateExtractedText persists the text extracted from the raw bytes.
	// Returns ErrDocumentNotFound if the document does not exist.
	UpdateExtractedText(ctx context.Context, id uuid.UUID, text string) error

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DocumentStore
}

// FreeformStore defines the interface for persisting freeform entries.
type FreeformStore interface {
	// Create saves a new freeform entry to the store.
	Create(ctx context.Context, entry *domain.FreeformEntry) error

	// GetByID retrieves a freeform entry by its unique ID.
	// Returns ErrFreeformNotFound if the entry does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FreeformEntry, error)

	// Update saves changes to an existing entry (raw text and the weak
	// link to its parsed employment record).
	Update(ctx context.Context, entry *domain.FreeformEntry) error

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FreeformStore
}
