package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/generation"
	"github.com/vitaehq/vitae-api/internal/service"
	"github.com/vitaehq/vitae-api/internal/store"
	"github.com/vitaehq/vitae-api/internal/task"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memStatusStore struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]*domain.ProcessingStatus
}

func newMemStatusStore() *memStatusStore {
	return &memStatusStore{statuses: make(map[uuid.UUID]*domain.ProcessingStatus)}
}

func (m *memStatusStore) Create(ctx context.Context, status *domain.ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *status
	m.statuses[status.ID] = &cp
	return nil
}

func (m *memStatusStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[id]
	if !ok {
		return nil, store.ErrStatusNotFound
	}
	cp := *status
	return &cp, nil
}

func (m *memStatusStore) Transition(ctx context.Context, id uuid.UUID, next domain.Status, errorMessage string) (*domain.ProcessingStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[id]
	if !ok {
		return nil, store.ErrStatusNotFound
	}
	if err := status.Transition(next, errorMessage); err != nil {
		return nil, err
	}
	cp := *status
	return &cp, nil
}

func (m *memStatusStore) GetLatest(ctx context.Context, limit int) ([]*domain.ProcessingStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*domain.ProcessingStatus, 0, len(m.statuses))
	for _, status := range m.statuses {
		cp := *status
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartedAt.After(all[j].StartedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memStatusStore) WithTx(tx *sql.Tx) store.StatusStore { return m }

type memSkillStore struct {
	mu     sync.Mutex
	skills []*domain.SkillRecord
}

func (m *memSkillStore) FindByNormalizedName(ctx context.Context, ownerID uuid.UUID, key string) (*domain.SkillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.skills {
		if s.OwnerID == ownerID && domain.NormalizeSkillName(s.Name) == key {
			cp := *s
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memSkillStore) InsertIfAbsent(ctx context.Context, skill *domain.SkillRecord) (*domain.SkillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *skill
	m.skills = append(m.skills, &cp)
	return skill, nil
}

func (m *memSkillStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.SkillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.SkillRecord
	for _, s := range m.skills {
		if s.OwnerID == ownerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memFreeformStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*domain.FreeformEntry
}

func newMemFreeformStore() *memFreeformStore {
	return &memFreeformStore{entries: make(map[uuid.UUID]*domain.FreeformEntry)}
}

func (m *memFreeformStore) Create(ctx context.Context, entry *domain.FreeformEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *memFreeformStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FreeformEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, store.ErrFreeformNotFound
	}
	cp := *entry
	return &cp, nil
}

func (m *memFreeformStore) Update(ctx context.Context, entry *domain.FreeformEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return store.ErrFreeformNotFound
	}
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *memFreeformStore) WithTx(tx *sql.Tx) store.FreeformStore { return m }

type memListingStore struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*domain.JobListing
}

func newMemListingStore() *memListingStore {
	return &memListingStore{listings: make(map[uuid.UUID]*domain.JobListing)}
}

func (m *memListingStore) Put(listing *domain.JobListing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[listing.ID] = listing
}

func (m *memListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[id]
	if !ok {
		return nil, store.ErrListingNotFound
	}
	return listing, nil
}

type noopRunner struct{}

func (noopRunner) Submit(ctx context.Context, t task.Task) error { return nil }

type stubTextExtractor struct{}

func (stubTextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	return string(data), nil
}

type stubRecordExtractor struct{}

func (stubRecordExtractor) ExtractRecords(ctx context.Context, text string) (*generation.ExtractedProfile, error) {
	return &generation.ExtractedProfile{}, nil
}

func (stubRecordExtractor) ExtractEmployment(ctx context.Context, narrative string) (*generation.CandidateEmployment, error) {
	return nil, nil
}

type stubGenerator struct{}

func (stubGenerator) GenerateResume(ctx context.Context, input generation.ResumeInput) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

// testPipeline bundles a pipeline service wired to in-memory stores. The
// database handle never connects; only request paths that stop before the
// transaction are exercised over HTTP.
type testPipeline struct {
	svc      *service.PipelineService
	entries  *memFreeformStore
	listings *memListingStore
}

func newTestPipeline(t *testing.T) *testPipeline {
	t.Helper()

	db, err := sql.Open("pgx", "postgres://localhost/unused")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	statuses := newMemStatusStore()
	skills := &memSkillStore{}
	entries := newMemFreeformStore()
	listings := newMemListingStore()
	logger := discardLogger()

	svc, err := service.NewPipelineService(
		db,
		service.PipelineStores{
			Statuses: statuses,
			Entries:  entries,
			Skills:   skills,
			Listings: listings,
		},
		service.NewStatusService(statuses, logger),
		service.NewSkillService(skills, logger),
		stubTextExtractor{},
		stubRecordExtractor{},
		stubGenerator{},
		noopRunner{},
		logger,
	)
	require.NoError(t, err)

	return &testPipeline{svc: svc, entries: entries, listings: listings}
}
