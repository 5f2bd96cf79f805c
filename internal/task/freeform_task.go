package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/generation"
	"github.com/vitaehq/vitae-api/internal/store"
)

// ErrNoEmploymentParsed is returned when a narrative yields no
// employment information at all.
var ErrNoEmploymentParsed = errors.New("no employment information found in narrative")

// FreeformExtractionTask parses a free-text career narrative into at
// most one employment record. If the freeform entry already links an
// employment record, that record is updated in place (upsert-by-link)
// rather than inserting a duplicate.
type FreeformExtractionTask struct {
	statusID uuid.UUID
	ownerID  uuid.UUID
	entryID  uuid.UUID

	entries    store.FreeformStore
	employment store.EmploymentStore
	records    generation.RecordExtractor
	logger     *slog.Logger
}

// NewFreeformExtractionTask creates a new freeform extraction task for
// the given entry and pre-created status record.
func NewFreeformExtractionTask(
	statusID uuid.UUID,
	ownerID uuid.UUID,
	entryID uuid.UUID,
	entries store.FreeformStore,
	employment store.EmploymentStore,
	records generation.RecordExtractor,
	logger *slog.Logger,
) (*FreeformExtractionTask, error) {
	if entries == nil || employment == nil {
		return nil, ErrNilStore
	}
	if records == nil {
		return nil, ErrNilExtractor
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if statusID == uuid.Nil || ownerID == uuid.Nil || entryID == uuid.Nil {
		return nil, ErrEmptyID
	}

	return &FreeformExtractionTask{
		statusID:   statusID,
		ownerID:    ownerID,
		entryID:    entryID,
		entries:    entries,
		employment: employment,
		records:    records,
		logger:     logger.With("task_type", domain.TaskTypeFreeformEntry, "entry_id", entryID),
	}, nil
}

// ID returns the ID of the task's processing status record.
func (t *FreeformExtractionTask) ID() uuid.UUID { return t.statusID }

// Type returns the task type identifier.
func (t *FreeformExtractionTask) Type() domain.TaskType { return domain.TaskTypeFreeformEntry }

// OwnerID returns the ID of the user the task runs on behalf of.
func (t *FreeformExtractionTask) OwnerID() uuid.UUID { return t.ownerID }

// SubjectID returns the ID of the freeform entry.
func (t *FreeformExtractionTask) SubjectID() uuid.UUID { return t.entryID }

// Execute parses the narrative and upserts the linked employment record.
func (t *FreeformExtractionTask) Execute(ctx context.Context) error {
	t.logger.Info("starting freeform extraction")

	entry, err := t.entries.GetByID(ctx, t.entryID)
	if err != nil {
		return fmt.Errorf("failed to load freeform entry: %w", err)
	}

	candidate, err := t.records.ExtractEmployment(ctx, entry.RawText)
	if err != nil {
		return fmt.Errorf("failed to parse narrative: %w", err)
	}
	if candidate == nil || candidate.Company == "" {
		return ErrNoEmploymentParsed
	}

	now := time.Now().UTC()
	start := parseDateOrFallback(candidate.StartDate, now)
	end := parseEndDate(candidate.EndDate, now)

	if entry.LinkedEmploymentID != nil {
		// Resubmission: update the linked record in place.
		rec, err := t.employment.GetByID(ctx, *entry.LinkedEmploymentID)
		if err != nil {
			return fmt.Errorf("failed to load linked employment record: %w", err)
		}

		rec.Company = candidate.Company
		rec.JobTitle = candidate.JobTitle
		rec.StartDate = start
		rec.EndDate = end
		rec.Location = candidate.Location
		rec.Responsibilities = candidate.Responsibilities
		rec.Accomplishments = candidate.Accomplishments

		if err := t.employment.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to update linked employment record: %w", err)
		}

		t.logger.Info("updated linked employment record", "employment_id", rec.ID)
		return nil
	}

	rec, err := domain.NewEmploymentRecord(t.ownerID, candidate.Company, candidate.JobTitle, start)
	if err != nil {
		return fmt.Errorf("parsed employment entry is invalid: %w", err)
	}
	rec.EndDate = end
	rec.Location = candidate.Location
	rec.Responsibilities = candidate.Responsibilities
	rec.Accomplishments = candidate.Accomplishments
	linked := t.entryID
	rec.LinkedFreeformID = &linked

	if err := t.employment.CreateAll(ctx, []*domain.EmploymentRecord{rec}); err != nil {
		return fmt.Errorf("failed to insert employment record: %w", err)
	}

	entry.LinkedEmploymentID = &rec.ID
	entry.UpdatedAt = now
	if err := t.entries.Update(ctx, entry); err != nil {
		return fmt.Errorf("failed to link employment record to entry: %w", err)
	}

	t.logger.Info("created employment record from narrative", "employment_id", rec.ID)
	return nil
}
