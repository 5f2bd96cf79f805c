package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/extract"
	"github.com/vitaehq/vitae-api/internal/generation"
	"github.com/vitaehq/vitae-api/internal/store"
	"github.com/vitaehq/vitae-api/internal/task"
)

// TaskRunner defines the interface for submitting background tasks.
type TaskRunner interface {
	// Submit adds a task to the processing queue.
	Submit(ctx context.Context, t task.Task) error
}

// SubmitResult carries the identifiers returned synchronously from a
// submission. Status is always "processing": the work has been handed to
// a worker and the caller observes progress via the tracker or the hub.
type SubmitResult struct {
	SubjectID uuid.UUID     `json:"subject_id"`
	StatusID  uuid.UUID     `json:"status_id"`
	Status    domain.Status `json:"status"`
}

// PipelineStores bundles the persistence dependencies of the dispatcher
// and the tasks it constructs.
type PipelineStores struct {
	Statuses   store.StatusStore
	Documents  store.DocumentStore
	Entries    store.FreeformStore
	Education  store.EducationStore
	Employment store.EmploymentStore
	Skills     store.SkillStore
	Listings   store.ListingStore
	Resumes    store.ResumeStore
}

// PipelineService is the dispatcher: thin glue that creates the subject
// row and its pending status synchronously inside the request, hands the
// work to the runner, and returns identifiers immediately. It never
// blocks on extraction or generation.
type PipelineService struct {
	db         *sql.DB
	stores     PipelineStores
	statuses   *StatusService
	reconciler *SkillService
	texts      extract.TextExtractor
	records    generation.RecordExtractor
	generator  generation.ResumeGenerator
	runner     TaskRunner
	logger     *slog.Logger
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(
	db *sql.DB,
	stores PipelineStores,
	statuses *StatusService,
	reconciler *SkillService,
	texts extract.TextExtractor,
	records generation.RecordExtractor,
	generator generation.ResumeGenerator,
	runner TaskRunner,
	logger *slog.Logger,
) (*PipelineService, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_pipeline", Message: "db cannot be nil"}
	}
	if statuses == nil || reconciler == nil {
		return nil, &ServiceError{Operation: "create_pipeline", Message: "services cannot be nil"}
	}
	if texts == nil || records == nil || generator == nil {
		return nil, &ServiceError{Operation: "create_pipeline", Message: "collaborators cannot be nil"}
	}
	if runner == nil {
		return nil, &ServiceError{Operation: "create_pipeline", Message: "runner cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PipelineService{
		db:         db,
		stores:     stores,
		statuses:   statuses,
		reconciler: reconciler,
		texts:      texts,
		records:    records,
		generator:  generator,
		runner:     runner,
		logger:     logger.With("component", "pipeline_service"),
	}, nil
}

// SubmitDocument creates the document row and its pending status, then
// dispatches an extraction task. Validation errors surface synchronously;
// everything after the hand-off is observable only via the tracker or
// the hub.
func (s *PipelineService) SubmitDocument(ctx context.Context, ownerID uuid.UUID, title string, raw []byte) (*SubmitResult, error) {
	doc, err := domain.NewUploadedDocument(ownerID, title, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	status, err := domain.NewProcessingStatus(ownerID, domain.TaskTypeUploadedResume, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Documents.WithTx(tx).Create(ctx, doc); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		if err := s.stores.Statuses.WithTx(tx).Create(ctx, status); err != nil {
			return fmt.Errorf("failed to save status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("submit_document", "failed to persist submission", err)
	}

	t, err := task.NewDocumentExtractionTask(
		status.ID, ownerID, doc.ID,
		s.db, s.stores.Documents, s.stores.Education, s.stores.Employment,
		s.reconciler, s.texts, s.records, s.logger,
	)
	if err != nil {
		return nil, NewServiceError("submit_document", "failed to build task", err)
	}

	if err := s.runner.Submit(ctx, t); err != nil {
		s.logger.Error("failed to enqueue extraction task",
			"status_id", status.ID,
			"document_id", doc.ID,
			"error", err)
		return nil, NewServiceError("submit_document", "failed to enqueue task", ErrQueueFull)
	}

	s.logger.Info("document submitted for extraction",
		"status_id", status.ID,
		"document_id", doc.ID,
		"owner_id", ownerID)

	return &SubmitResult{SubjectID: doc.ID, StatusID: status.ID, Status: domain.StatusProcessing}, nil
}

// SubmitFreeform creates or updates a freeform entry and dispatches a
// parsing task. When entryID is non-nil the call is a resubmission: the
// entry's text is replaced and its linked employment record will be
// updated in place by the worker.
func (s *PipelineService) SubmitFreeform(ctx context.Context, ownerID uuid.UUID, text string, entryID *uuid.UUID) (*SubmitResult, error) {
	var entry *domain.FreeformEntry
	var err error

	if entryID != nil {
		entry, err = s.stores.Entries.GetByID(ctx, *entryID)
		if err != nil {
			return nil, err
		}
		if entry.OwnerID != ownerID {
			return nil, fmt.Errorf("freeform entry %s: %w", *entryID, domain.ErrNotOwned)
		}
		if text == "" {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyContent)
		}
		entry.RawText = text
	} else {
		entry, err = domain.NewFreeformEntry(ownerID, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}

	status, err := domain.NewProcessingStatus(ownerID, domain.TaskTypeFreeformEntry, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	isResubmission := entryID != nil
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		entries := s.stores.Entries.WithTx(tx)
		if isResubmission {
			if err := entries.Update(ctx, entry); err != nil {
				return fmt.Errorf("failed to update freeform entry: %w", err)
			}
		} else {
			if err := entries.Create(ctx, entry); err != nil {
				return fmt.Errorf("failed to save freeform entry: %w", err)
			}
		}
		if err := s.stores.Statuses.WithTx(tx).Create(ctx, status); err != nil {
			return fmt.Errorf("failed to save status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("submit_freeform", "failed to persist submission", err)
	}

	t, err := task.NewFreeformExtractionTask(
		status.ID, ownerID, entry.ID,
		s.stores.Entries, s.stores.Employment, s.records, s.logger,
	)
	if err != nil {
		return nil, NewServiceError("submit_freeform", "failed to build task", err)
	}

	if err := s.runner.Submit(ctx, t); err != nil {
		s.logger.Error("failed to enqueue freeform task",
			"status_id", status.ID,
			"entry_id", entry.ID,
			"error", err)
		return nil, NewServiceError("submit_freeform", "failed to enqueue task", ErrQueueFull)
	}

	s.logger.Info("freeform entry submitted for parsing",
		"status_id", status.ID,
		"entry_id", entry.ID,
		"resubmission", isResubmission)

	return &SubmitResult{SubjectID: entry.ID, StatusID: status.ID, Status: domain.StatusProcessing}, nil
}

// SubmitGeneration verifies listing ownership, creates the resume
// placeholder and its pending status, then dispatches a generation task.
// The ownership check runs synchronously so unauthorized callers fail
// immediately, before any task is dispatched.
func (s *PipelineService) SubmitGeneration(ctx context.Context, ownerID, listingID uuid.UUID) (*SubmitResult, error) {
	listing, err := s.stores.Listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, fmt.Errorf("job listing %s: %w", listingID, domain.ErrNotOwned)
	}

	resume, err := domain.NewGeneratedResume(ownerID, listingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	status, err := domain.NewProcessingStatus(ownerID, domain.TaskTypeGeneratedResume, resume.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Resumes.WithTx(tx).Create(ctx, resume); err != nil {
			return fmt.Errorf("failed to save resume placeholder: %w", err)
		}
		if err := s.stores.Statuses.WithTx(tx).Create(ctx, status); err != nil {
			return fmt.Errorf("failed to save status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("submit_generation", "failed to persist submission", err)
	}

	t, err := task.NewResumeGenerationTask(
		status.ID, ownerID, resume.ID, listingID,
		s.stores.Listings, s.stores.Resumes, s.stores.Education,
		s.stores.Employment, s.stores.Skills, s.generator, s.logger,
	)
	if err != nil {
		return nil, NewServiceError("submit_generation", "failed to build task", err)
	}

	if err := s.runner.Submit(ctx, t); err != nil {
		s.logger.Error("failed to enqueue generation task",
			"status_id", status.ID,
			"resume_id", resume.ID,
			"error", err)
		return nil, NewServiceError("submit_generation", "failed to enqueue task", ErrQueueFull)
	}

	s.logger.Info("resume generation submitted",
		"status_id", status.ID,
		"resume_id", resume.ID,
		"listing_id", listingID)

	return &SubmitResult{SubjectID: resume.ID, StatusID: status.ID, Status: domain.StatusProcessing}, nil
}
