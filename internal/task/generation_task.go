package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/generation"
	"github.com/vitaehq/vitae-api/internal/store"
)

// ResumeGenerationTask produces a structured resume tailored to a job
// listing, using every stored education and employment record for the
// owner, and stores the result on a pre-created GeneratedResume
// placeholder.
type ResumeGenerationTask struct {
	statusID  uuid.UUID
	ownerID   uuid.UUID
	resumeID  uuid.UUID
	listingID uuid.UUID

	listings   store.ListingStore
	resumes    store.ResumeStore
	education  store.EducationStore
	employment store.EmploymentStore
	skills     store.SkillStore
	generator  generation.ResumeGenerator
	logger     *slog.Logger
}

// NewResumeGenerationTask creates a new generation task for the given
// resume placeholder and pre-created status record.
func NewResumeGenerationTask(
	statusID uuid.UUID,
	ownerID uuid.UUID,
	resumeID uuid.UUID,
	listingID uuid.UUID,
	listings store.ListingStore,
	resumes store.ResumeStore,
	education store.EducationStore,
	employment store.EmploymentStore,
	skills store.SkillStore,
	generator generation.ResumeGenerator,
	logger *slog.Logger,
) (*ResumeGenerationTask, error) {
	if listings == nil || resumes == nil || education == nil || employment == nil || skills == nil {
		return nil, ErrNilStore
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if statusID == uuid.Nil || ownerID == uuid.Nil || resumeID == uuid.Nil || listingID == uuid.Nil {
		return nil, ErrEmptyID
	}

	return &ResumeGenerationTask{
		statusID:   statusID,
		ownerID:    ownerID,
		resumeID:   resumeID,
		listingID:  listingID,
		listings:   listings,
		resumes:    resumes,
		education:  education,
		employment: employment,
		skills:     skills,
		generator:  generator,
		logger:     logger.With("task_type", domain.TaskTypeGeneratedResume, "resume_id", resumeID),
	}, nil
}

// ID returns the ID of the task's processing status record.
func (t *ResumeGenerationTask) ID() uuid.UUID { return t.statusID }

// Type returns the task type identifier.
func (t *ResumeGenerationTask) Type() domain.TaskType { return domain.TaskTypeGeneratedResume }

// OwnerID returns the ID of the user the task runs on behalf of.
func (t *ResumeGenerationTask) OwnerID() uuid.UUID { return t.ownerID }

// SubjectID returns the ID of the generated resume placeholder.
func (t *ResumeGenerationTask) SubjectID() uuid.UUID { return t.resumeID }

// Execute loads the listing, verifies ownership before any external
// call, builds the deterministic prompt input and stores the generated
// content. A non-conforming upstream payload fails the task with no
// partial persistence.
func (t *ResumeGenerationTask) Execute(ctx context.Context) error {
	t.logger.Info("starting resume generation")

	listing, err := t.listings.GetByID(ctx, t.listingID)
	if err != nil {
		return fmt.Errorf("failed to load job listing: %w", err)
	}

	// Ownership is checked before the upstream call so unauthorized
	// requests never spend generation quota.
	if listing.OwnerID != t.ownerID {
		return fmt.Errorf("job listing %s: %w", t.listingID, domain.ErrNotOwned)
	}

	educationRecords, err := t.education.GetByOwner(ctx, t.ownerID)
	if err != nil {
		return fmt.Errorf("failed to load education records: %w", err)
	}
	employmentRecords, err := t.employment.GetByOwner(ctx, t.ownerID)
	if err != nil {
		return fmt.Errorf("failed to load employment records: %w", err)
	}
	skillRecords, err := t.skills.GetByOwner(ctx, t.ownerID)
	if err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}

	input := generation.ResumeInput{
		JobTitle:       listing.Title,
		JobDescription: listing.Description,
		Education:      educationToCandidates(educationRecords),
		Employment:     employmentToCandidates(employmentRecords),
		Skills:         skillNames(skillRecords),
	}

	content, err := t.generator.GenerateResume(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to generate resume: %w", err)
	}

	if err := t.resumes.UpdateContent(ctx, t.resumeID, content); err != nil {
		return fmt.Errorf("failed to store generated resume: %w", err)
	}

	t.logger.Info("resume generation finished",
		"education_count", len(educationRecords),
		"employment_count", len(employmentRecords))
	return nil
}

func educationToCandidates(records []*domain.EducationRecord) []generation.CandidateEducation {
	out := make([]generation.CandidateEducation, 0, len(records))
	for _, r := range records {
		out = append(out, generation.CandidateEducation{
			Institution:  r.Institution,
			Degree:       r.Degree,
			FieldOfStudy: r.FieldOfStudy,
			Description:  r.Description,
			GPA:          r.GPA,
			StartDate:    formatDate(r.StartDate),
			EndDate:      formatDate(r.EndDate),
		})
	}
	return out
}

func employmentToCandidates(records []*domain.EmploymentRecord) []generation.CandidateEmployment {
	out := make([]generation.CandidateEmployment, 0, len(records))
	for _, r := range records {
		start := r.StartDate
		out = append(out, generation.CandidateEmployment{
			Company:          r.Company,
			JobTitle:         r.JobTitle,
			StartDate:        formatDate(&start),
			EndDate:          formatDate(r.EndDate),
			Location:         r.Location,
			Responsibilities: r.Responsibilities,
			Accomplishments:  r.Accomplishments,
		})
	}
	return out
}

func skillNames(records []*domain.SkillRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
