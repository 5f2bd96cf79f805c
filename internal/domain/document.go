package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for UploadedDocument
var (
	ErrEmptyDocumentTitle = errors.New("document title cannot be empty")
	ErrEmptyDocumentBytes = errors.New("document content cannot be empty")
)

// UploadedDocument is a raw document submitted by a user for extraction.
// ExtractedText is populated by the extraction worker after processing.
type UploadedDocument struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Title         string    `json:"title"`
	RawBytes      []byte    `json:"-"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewUploadedDocument creates a new UploadedDocument owned by the given user.
// Returns an error if validation fails.
func NewUploadedDocument(ownerID uuid.UUID, title string, raw []byte) (*UploadedDocument, error) {
	doc := &UploadedDocument{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		RawBytes:  raw,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the UploadedDocument has valid data.
func (d *UploadedDocument) Validate() error {
	if d.ID == uuid.Nil {
		return ErrInvalidID
	}
	if d.OwnerID == uuid.Nil {
		return ErrInvalidID
	}
	if d.Title == "" {
		return ErrEmptyDocumentTitle
	}
	if len(d.RawBytes) == 0 {
		return ErrEmptyDocumentBytes
	}
	return nil
}
