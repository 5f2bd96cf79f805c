// Package generation defines the boundary between the application core
// and external language-model services. The interfaces here are consumed
// by the background workers and implemented by internal/platform/gemini.
package generation

import (
	"context"
	"encoding/json"
)

// CandidateEducation is one education entry proposed by the
// structured-extraction collaborator. Dates are raw strings as found in
// the source text; parsing and fallback policy belong to the worker.
type CandidateEducation struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	Description  string `json:"description,omitempty"`
	GPA          string `json:"gpa,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

// CandidateEmployment is one employment entry proposed by the
// structured-extraction collaborator.
type CandidateEmployment struct {
	Company          string   `json:"company"`
	JobTitle         string   `json:"job_title"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	Location         string   `json:"location,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Accomplishments  []string `json:"accomplishments,omitempty"`
}

// ExtractedProfile is the full set of candidate records the
// structured-extraction collaborator derives from one document.
type ExtractedProfile struct {
	Education  []CandidateEducation  `json:"education"`
	Employment []CandidateEmployment `json:"employment"`
	Skills     []string              `json:"skills"`
}

// RecordExtractor turns extracted plain text into candidate career records.
type RecordExtractor interface {
	// ExtractRecords derives candidate education, employment and skill
	// lists from document text. Returns ErrInvalidResponse if the model
	// output does not conform to the fixed schema.
	ExtractRecords(ctx context.Context, text string) (*ExtractedProfile, error)

	// ExtractEmployment parses a freeform career narrative into at most
	// one candidate employment entry.
	ExtractEmployment(ctx context.Context, narrative string) (*CandidateEmployment, error)
}

// ResumeInput carries everything the resume generator embeds in its prompt.
type ResumeInput struct {
	JobTitle       string
	JobDescription string
	Education      []CandidateEducation
	Employment     []CandidateEmployment
	Skills         []string
}

// ResumeGenerator produces a structured resume tailored to a job listing.
type ResumeGenerator interface {
	// GenerateResume invokes the external generation service with a
	// deterministic prompt built from input and a fixed response-schema
	// instruction, and returns the conforming JSON payload.
	// A non-conforming payload yields ErrInvalidResponse.
	GenerateResume(ctx context.Context, input ResumeInput) (json.RawMessage, error)
}
