package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyListingTitle is returned when a job listing has no title.
var ErrEmptyListingTitle = errors.New("job listing title cannot be empty")

// JobListing is a target job description a resume is generated against.
// Listing management lives outside this service; the pipeline only loads
// listings by ID and verifies ownership.
type JobListing struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks if the JobListing has valid data.
func (l *JobListing) Validate() error {
	if l.ID == uuid.Nil || l.OwnerID == uuid.Nil {
		return ErrInvalidID
	}
	if l.Title == "" {
		return ErrEmptyListingTitle
	}
	return nil
}
