package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/generation"
	"github.com/vitaehq/vitae-api/internal/store"
	"github.com/vitaehq/vitae-api/internal/task"
)

// memoryStatusStore is an in-memory store.StatusStore enforcing the
// same lifecycle rules as the Postgres implementation.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memoryStatusStore struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]*domain.ProcessingStatus
	order    []uuid.UUID
}

func newMemoryStatusStore() *memoryStatusStore {
	return &memoryStatusStore{statuses: make(map[uuid.UUID]*domain.ProcessingStatus)}
}

func (m *memoryStatusStore) Create(ctx context.Context, status *domain.ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *status
	m.statuses[status.ID] = &cp
	m.order = append(m.order, status.ID)
	return nil
}

func (m *memoryStatusStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[id]
	if !ok {
		return nil, store.ErrStatusNotFound
	}
	cp := *status
	return &cp, nil
}

func (m *memoryStatusStore) Transition(ctx context.Context, id uuid.UUID, next domain.Status, errorMessage string) (*domain.ProcessingStatus, error) {
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

func (m *memoryStatusStore) GetLatest(ctx context.Context, limit int) ([]*domain.ProcessingStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*domain.ProcessingStatus, 0, len(m.statuses))
	for _, status := range m.statuses {
		cp := *status
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].StartedAt.After(all[j].StartedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryStatusStore) WithTx(tx *sql.Tx) store.StatusStore { return m }

// memorySkillStore is an in-memory store.SkillStore with the same
// normalized-name uniqueness semantics as the Postgres one.
type memorySkillStore struct {
	mu     sync.Mutex
	skills []*domain.SkillRecord
}

func (m *memorySkillStore) FindByNormalizedName(ctx context.Context, ownerID uuid.UUID, key string) (*domain.SkillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(ownerID, key)
}

func (m *memorySkillStore) findLocked(ownerID uuid.UUID, key string) (*domain.SkillRecord, error) {
	for _, s := range m.skills {
		if s.OwnerID == ownerID && domain.NormalizeSkillName(s.Name) == key {
			cp := *s
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memorySkillStore) InsertIfAbsent(ctx context.Context, skill *domain.SkillRecord) (*domain.SkillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := domain.NormalizeSkillName(skill.Name)
	if existing, err := m.findLocked(skill.OwnerID, key); err == nil {
		return existing, nil
	}
	cp := *skill
	m.skills = append(m.skills, &cp)
	return skill, nil
}

func (m *memorySkillStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.SkillRecord, error) {
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

// memoryListingStore is an in-memory store.ListingStore.
type memoryListingStore struct {
	listings map[uuid.UUID]*domain.JobListing
}

func (m *memoryListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobListing, error) {
	listing, ok := m.listings[id]
	if !ok {
		return nil, store.ErrListingNotFound
	}
	return listing, nil
}

// recordingRunner captures submitted tasks.
type recordingRunner struct {
	mu        sync.Mutex
	submitted []task.Task
	err       error
}

func (r *recordingRunner) Submit(ctx context.Context, t task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.submitted = append(r.submitted, t)
	return nil
}

func (r *recordingRunner) Submitted() []task.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]task.Task, len(r.submitted))
	copy(out, r.submitted)
	return out
}

// countingGenerator counts GenerateResume calls.
type countingGenerator struct {
	mu    sync.Mutex
	calls int
}

func (g *countingGenerator) GenerateResume(ctx context.Context, input generation.ResumeInput) (json.RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return json.RawMessage(`{}`), nil
}

func (g *countingGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// stubRecordExtractor satisfies generation.RecordExtractor.
type stubRecordExtractor struct{}

func (stubRecordExtractor) ExtractRecords(ctx context.Context, text string) (*generation.ExtractedProfile, error) {
	return &generation.ExtractedProfile{}, nil
}

func (stubRecordExtractor) ExtractEmployment(ctx context.Context, narrative string) (*generation.CandidateEmployment, error) {
	return nil, nil
}

// stubTextExtractor satisfies extract.TextExtractor.
type stubTextExtractor struct{}

func (stubTextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	return string(data), nil
}

type memoryFreeformStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*domain.FreeformEntry
}

func newMemoryFreeformStore() *memoryFreeformStore {
	return &memoryFreeformStore{entries: make(map[uuid.UUID]*domain.FreeformEntry)}
}

func (m *memoryFreeformStore) Create(ctx context.Context, entry *domain.FreeformEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *memoryFreeformStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FreeformEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, store.ErrFreeformNotFound
	}
	cp := *entry
	return &cp, nil
}

func (m *memoryFreeformStore) Update(ctx context.Context, entry *domain.FreeformEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return store.ErrFreeformNotFound
	}
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *memoryFreeformStore) WithTx(tx *sql.Tx) store.FreeformStore { return m }
