package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/generation"
)

func seedEntry(t *testing.T, entries *mockFreeformStore, ownerID uuid.UUID, text string) *domain.FreeformEntry {
	t.Helper()
	entry, err := domain.NewFreeformEntry(ownerID, text)
	require.NoError(t, err)
	require.NoError(t, entries.Create(context.Background(), entry))
	return entry
}

func newFreeformTask(t *testing.T, ownerID, entryID uuid.UUID, entries *mockFreeformStore, employment *mockEmploymentStore, records *mockRecordExtractor) *FreeformExtractionTask {
	t.Helper()
	task, err := NewFreeformExtractionTask(uuid.New(), ownerID, entryID, entries, employment, records, discardLogger())
	require.NoError(t, err)
	return task
}

func TestFreeformExtractionTask_CreatesAndLinksRecord(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	entries := newMockFreeformStore()
	employment := newMockEmploymentStore()
	entry := seedEntry(t, entries, ownerID, "I led the data team at Acme from 2019.")

	records := &mockRecordExtractor{
		employment: &generation.CandidateEmployment{
			Company:          "Acme",
			JobTitle:         "Data Team Lead",
			StartDate:        "2019-03",
			EndDate:          "Present",
			Responsibilities: []string{"ran the team"},
		},
	}

	task := newFreeformTask(t, ownerID, entry.ID, entries, employment, records)
	require.NoError(t, task.Execute(context.Background()))

	updated, err := entries.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LinkedEmploymentID)

	rec, err := employment.GetByID(context.Background(), *updated.LinkedEmploymentID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.Company)
	assert.Equal(t, "Data Team Lead", rec.JobTitle)
	assert.Equal(t, time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC), rec.StartDate)
	require.NotNil(t, rec.EndDate)
	require.NotNil(t, rec.LinkedFreeformID)
	assert.Equal(t, entry.ID, *rec.LinkedFreeformID)
}

func TestFreeformExtractionTask_ResubmissionUpdatesInPlace(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	entries := newMockFreeformStore()
	employment := newMockEmploymentStore()

	existing, err := domain.NewEmploymentRecord(ownerID, "Acme", "Engineer",
		time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, employment.CreateAll(context.Background(), []*domain.EmploymentRecord{existing}))

	entry := seedEntry(t, entries, ownerID, "Promoted to senior engineer at Acme.")
	entry.LinkedEmploymentID = &existing.ID
	require.NoError(t, entries.Update(context.Background(), entry))

	records := &mockRecordExtractor{
		employment: &generation.CandidateEmployment{
			Company:   "Acme",
			JobTitle:  "Senior Engineer",
			StartDate: "2018-01",
		},
	}

	task := newFreeformTask(t, ownerID, entry.ID, entries, employment, records)
	require.NoError(t, task.Execute(context.Background()))

	// Still exactly one record, updated in place.
	all, err := employment.GetByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, existing.ID, all[0].ID)
	assert.Equal(t, "Senior Engineer", all[0].JobTitle)
}

func TestFreeformExtractionTask_NoEmploymentParsed(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	entries := newMockFreeformStore()
	employment := newMockEmploymentStore()
	entry := seedEntry(t, entries, ownerID, "I enjoy long walks on the beach.")

	t.Run("nil candidate", func(t *testing.T) {
		t.Parallel()

		task := newFreeformTask(t, ownerID, entry.ID, entries, employment, &mockRecordExtractor{})
		err := task.Execute(context.Background())
		assert.ErrorIs(t, err, ErrNoEmploymentParsed)
	})

	t.Run("candidate without company", func(t *testing.T) {
		t.Parallel()

		records := &mockRecordExtractor{
			employment: &generation.CandidateEmployment{JobTitle: "Wanderer"},
		}
		task := newFreeformTask(t, ownerID, entry.ID, entries, employment, records)
		err := task.Execute(context.Background())
		assert.ErrorIs(t, err, ErrNoEmploymentParsed)
	})
}

func TestFreeformExtractionTask_ExtractorFailurePropagates(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	entries := newMockFreeformStore()
	entry := seedEntry(t, entries, ownerID, "some text")

	upstream := errors.New("model unavailable")
	records := &mockRecordExtractor{employmentErr: upstream}

	task := newFreeformTask(t, ownerID, entry.ID, entries, newMockEmploymentStore(), records)
	err := task.Execute(context.Background())
	assert.ErrorIs(t, err, upstream)
}

func TestNewFreeformExtractionTask_Validation(t *testing.T) {
	t.Parallel()

	entries := newMockFreeformStore()
	employment := newMockEmploymentStore()
	records := &mockRecordExtractor{}
	logger := discardLogger()
	id := uuid.New()

	_, err := NewFreeformExtractionTask(id, id, id, nil, employment, records, logger)
	assert.ErrorIs(t, err, ErrNilStore)

	_, err = NewFreeformExtractionTask(id, id, id, entries, employment, nil, logger)
	assert.ErrorIs(t, err, ErrNilExtractor)

	_, err = NewFreeformExtractionTask(id, id, id, entries, employment, records, nil)
	assert.ErrorIs(t, err, ErrNilLogger)

	_, err = NewFreeformExtractionTask(uuid.Nil, id, id, entries, employment, records, logger)
	assert.ErrorIs(t, err, ErrEmptyID)
}
