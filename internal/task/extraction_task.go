package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/extract"
	"github.com/vitaehq/vitae-api/internal/generation"
	"github.com/vitaehq/vitae-api/internal/store"
)

// Common construction errors for tasks
var (
	ErrNilStore      = errors.New("store dependency cannot be nil")
	ErrNilExtractor  = errors.New("extractor cannot be nil")
	ErrNilReconciler = errors.New("skill reconciler cannot be nil")
	ErrNilGenerator  = errors.New("generator cannot be nil")
	ErrNilLogger     = errors.New("logger cannot be nil")
	ErrNilDB         = errors.New("database handle cannot be nil")
	ErrEmptyID       = errors.New("id cannot be empty")
)

// ErrNoValidRecords indicates that a category of extracted candidates
// (education or employment) was present but every entry failed record
// validation. The task fails rather than completing with nothing
// persisted for that category.
var ErrNoValidRecords = errors.New("no valid records extracted")

// txRunner is the transaction boundary the task persists records
// through. It defaults to store.RunInTransaction.
type txRunner func(ctx context.Context, db *sql.DB, fn store.TxFn) error

// DocumentExtractionTask turns an uploaded document's raw bytes into
// structured education, employment and skill records.
//
// Persistence is phased: extracted text, then career records, then
// skills. There is no compensating rollback across phases — on failure,
// whatever was already persisted stays in place and the failure is
// recorded on the status row.
type DocumentExtractionTask struct {
	statusID   uuid.UUID
	ownerID    uuid.UUID
	documentID uuid.UUID

	db         *sql.DB
	documents  store.DocumentStore
	education  store.EducationStore
	employment store.EmploymentStore
	skills     SkillReconciler
	texts      extract.TextExtractor
	records    generation.RecordExtractor
	inTx       txRunner
	logger     *slog.Logger
}

// NewDocumentExtractionTask creates a new extraction task for the given
// document and pre-created status record.
func NewDocumentExtractionTask(
	statusID uuid.UUID,
	ownerID uuid.UUID,
	documentID uuid.UUID,
	db *sql.DB,
	documents store.DocumentStore,
	education store.EducationStore,
	employment store.EmploymentStore,
	skills SkillReconciler,
	texts extract.TextExtractor,
	records generation.RecordExtractor,
	logger *slog.Logger,
) (*DocumentExtractionTask, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if documents == nil || education == nil || employment == nil {
		return nil, ErrNilStore
	}
	if skills == nil {
		return nil, ErrNilReconciler
	}
	if texts == nil || records == nil {
		return nil, ErrNilExtractor
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if statusID == uuid.Nil || ownerID == uuid.Nil || documentID == uuid.Nil {
		return nil, ErrEmptyID
	}

	return &DocumentExtractionTask{
		statusID:   statusID,
		ownerID:    ownerID,
		documentID: documentID,
		db:         db,
		documents:  documents,
		education:  education,
		employment: employment,
		skills:     skills,
		texts:      texts,
		records:    records,
		inTx:       store.RunInTransaction,
		logger:     logger.With("task_type", domain.TaskTypeUploadedResume, "document_id", documentID),
	}, nil
}

// ID returns the ID of the task's processing status record.
func (t *DocumentExtractionTask) ID() uuid.UUID { return t.statusID }

// Type returns the task type identifier.
func (t *DocumentExtractionTask) Type() domain.TaskType { return domain.TaskTypeUploadedResume }

// OwnerID returns the ID of the user the task runs on behalf of.
func (t *DocumentExtractionTask) OwnerID() uuid.UUID { return t.ownerID }

// SubjectID returns the ID of the uploaded document.
func (t *DocumentExtractionTask) SubjectID() uuid.UUID { return t.documentID }

// Execute runs the extraction pipeline: plain text, candidate records,
// persisted text, parsed dates, bulk-inserted records, reconciled skills.
func (t *DocumentExtractionTask) Execute(ctx context.Context) error {
	t.logger.Info("starting document extraction")

	doc, err := t.documents.GetByID(ctx, t.documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	text, err := t.texts.ExtractText(ctx, doc.RawBytes)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	profile, err := t.records.ExtractRecords(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to extract structured records: %w", err)
	}

	if err := t.documents.UpdateExtractedText(ctx, t.documentID, text); err != nil {
		return fmt.Errorf("failed to persist extracted text: %w", err)
	}

	now := time.Now().UTC()

	educationRecords := make([]*domain.EducationRecord, 0, len(profile.Education))
	for _, cand := range profile.Education {
		rec, err := domain.NewEducationRecord(t.ownerID, cand.Institution, cand.Degree)
		if err != nil {
			t.logger.Warn("skipping invalid education entry",
				"institution", cand.Institution,
				"error", err)
			continue
		}
		rec.FieldOfStudy = cand.FieldOfStudy
		rec.Description = cand.Description
		rec.GPA = cand.GPA
		start := parseDateOrFallback(cand.StartDate, now)
		rec.StartDate = &start
		end := parseDateOrFallback(cand.EndDate, now)
		rec.EndDate = &end
		educationRecords = append(educationRecords, rec)
	}

	employmentRecords := make([]*domain.EmploymentRecord, 0, len(profile.Employment))
	for _, cand := range profile.Employment {
		start := parseDateOrFallback(cand.StartDate, now)
		rec, err := domain.NewEmploymentRecord(t.ownerID, cand.Company, cand.JobTitle, start)
		if err != nil {
			t.logger.Warn("skipping invalid employment entry",
				"company", cand.Company,
				"error", err)
			continue
		}
		rec.EndDate = parseEndDate(cand.EndDate, now)
		rec.Location = cand.Location
		rec.Responsibilities = cand.Responsibilities
		rec.Accomplishments = cand.Accomplishments
		employmentRecords = append(employmentRecords, rec)
	}

	// A category that yielded candidates must persist at least one
	// record; completing with nothing stored would be indistinguishable
	// from success for the caller.
	if len(profile.Education) > 0 && len(educationRecords) == 0 {
		return fmt.Errorf("%w: all %d education entries failed validation",
			ErrNoValidRecords, len(profile.Education))
	}
	if len(profile.Employment) > 0 && len(employmentRecords) == 0 {
		return fmt.Errorf("%w: all %d employment entries failed validation",
			ErrNoValidRecords, len(profile.Employment))
	}

	err = t.inTx(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		if len(educationRecords) > 0 {
			if err := t.education.WithTx(tx).CreateAll(ctx, educationRecords); err != nil {
				return fmt.Errorf("failed to insert education records: %w", err)
			}
		}
		if len(employmentRecords) > 0 {
			if err := t.employment.WithTx(tx).CreateAll(ctx, employmentRecords); err != nil {
				return fmt.Errorf("failed to insert employment records: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	skills, err := t.skills.AddSkills(ctx, t.ownerID, profile.Skills)
	if err != nil {
		return fmt.Errorf("failed to reconcile skills: %w", err)
	}

	t.logger.Info("document extraction finished",
		"education_count", len(educationRecords),
		"employment_count", len(employmentRecords),
		"skill_count", len(skills))
	return nil
}
