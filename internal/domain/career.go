package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for career records
var (
	ErrEmptyInstitution = errors.New("institution cannot be empty")
	ErrEmptyCompany     = errors.New("company cannot be empty")
	ErrEmptyJobTitle    = errors.New("job title cannot be empty")
	ErrEmptySkillName   = errors.New("skill name cannot be empty")
)

// EducationRecord is a structured education entry derived from
// unstructured input and owned by a user.
type EducationRecord struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study,omitempty"`
	Description  string     `json:"description,omitempty"`
	GPA          string     `json:"gpa,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// NewEducationRecord creates a new EducationRecord owned by the given user.
func NewEducationRecord(ownerID uuid.UUID, institution, degree string) (*EducationRecord, error) {
	rec := &EducationRecord{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Institution: institution,
		Degree:      degree,
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the EducationRecord has valid data.
func (r *EducationRecord) Validate() error {
	if r.ID == uuid.Nil || r.OwnerID == uuid.Nil {
		return ErrInvalidID
	}
	if r.Institution == "" {
		return ErrEmptyInstitution
	}
	return nil
}

// EmploymentRecord is a structured employment entry owned by a user.
// LinkedFreeformID is a weak back-reference to the freeform entry the
// record was parsed from, if any; at most one entry links a record.
type EmploymentRecord struct {
	ID               uuid.UUID  `json:"id"`
	OwnerID          uuid.UUID  `json:"owner_id"`
	Company          string     `json:"company"`
	JobTitle         string     `json:"job_title"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Responsibilities []string   `json:"responsibilities"`
	Accomplishments  []string   `json:"accomplishments"`
	Location         string     `json:"location,omitempty"`
	LinkedFreeformID *uuid.UUID `json:"linked_freeform_id,omitempty"`
}

// NewEmploymentRecord creates a new EmploymentRecord owned by the given user.
func NewEmploymentRecord(ownerID uuid.UUID, company, jobTitle string, startDate time.Time) (*EmploymentRecord, error) {
	rec := &EmploymentRecord{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Company:   company,
		JobTitle:  jobTitle,
		StartDate: startDate,
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the EmploymentRecord has valid data.
func (r *EmploymentRecord) Validate() error {
	if r.ID == uuid.Nil || r.OwnerID == uuid.Nil {
		return ErrInvalidID
	}
	if r.Company == "" {
		return ErrEmptyCompany
	}
	if r.JobTitle == "" {
		return ErrEmptyJobTitle
	}
	return nil
}

// SkillRecord is a skill owned by a user. Name keeps the casing the
// caller originally supplied; uniqueness is enforced per owner on the
// normalized form (see NormalizeSkillName).
type SkillRecord struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
}

// NewSkillRecord creates a new SkillRecord owned by the given user,
// preserving the caller-supplied casing of name.
func NewSkillRecord(ownerID uuid.UUID, name string) (*SkillRecord, error) {
	rec := &SkillRecord{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    strings.TrimSpace(name),
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the SkillRecord has valid data.
func (r *SkillRecord) Validate() error {
	if r.ID == uuid.Nil || r.OwnerID == uuid.Nil {
		return ErrInvalidID
	}
	if r.Name == "" {
		return ErrEmptySkillName
	}
	return nil
}

// NormalizeSkillName computes the comparison key used for per-owner
// skill uniqueness: whitespace trimmed, lowercased.
func NormalizeSkillName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
