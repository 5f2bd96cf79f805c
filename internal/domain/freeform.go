package domain

import (
	"time"

	"github.com/google/uuid"
)

// FreeformEntry is a free-text career narrative submitted by a user.
// LinkedEmploymentID is a weak reference to the employment record parsed
// from the narrative; resubmission updates that record in place rather
// than inserting a duplicate.
type FreeformEntry struct {
	ID                 uuid.UUID  `json:"id"`
	OwnerID            uuid.UUID  `json:"owner_id"`
	RawText            string     `json:"raw_text"`
	LinkedEmploymentID *uuid.UUID `json:"linked_employment_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewFreeformEntry creates a new FreeformEntry owned by the given user.
// Returns an error if validation fails.
func NewFreeformEntry(ownerID uuid.UUID, rawText string) (*FreeformEntry, error) {
	entry := &FreeformEntry{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		RawText:   rawText,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the FreeformEntry has valid data.
func (e *FreeformEntry) Validate() error {
	if e.ID == uuid.Nil || e.OwnerID == uuid.Nil {
		return ErrInvalidID
	}
	if e.RawText == "" {
		return ErrEmptyContent
	}
	return nil
}
