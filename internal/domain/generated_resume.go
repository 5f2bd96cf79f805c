package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GeneratedResume is a structured resume produced by the generation
// worker for a target job listing. The row is created as an empty
// placeholder at submission time; Content is filled in by the worker.
type GeneratedResume struct {
	ID                     uuid.UUID       `json:"id"`
	OwnerID                uuid.UUID       `json:"owner_id"`
	SourceJobDescriptionID uuid.UUID       `json:"source_job_description_id"`
	Content                json.RawMessage `json:"content,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// NewGeneratedResume creates an empty GeneratedResume placeholder for the
// given owner and job listing. Returns an error if validation fails.
func NewGeneratedResume(ownerID, sourceJobDescriptionID uuid.UUID) (*GeneratedResume, error) {
	resume := &GeneratedResume{
		ID:                     uuid.New(),
		OwnerID:                ownerID,
		SourceJobDescriptionID: sourceJobDescriptionID,
		CreatedAt:              time.Now().UTC(),
		UpdatedAt:              time.Now().UTC(),
	}

	if err := resume.Validate(); err != nil {
		return nil, err
	}

	return resume, nil
}

// Validate checks if the GeneratedResume has valid data.
func (r *GeneratedResume) Validate() error {
	if r.ID == uuid.Nil || r.OwnerID == uuid.Nil || r.SourceJobDescriptionID == uuid.Nil {
		return ErrInvalidID
	}
	return nil
}
