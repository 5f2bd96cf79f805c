package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/generation"
	"github.com/vitaehq/vitae-api/internal/store"
)

// transitionCall records one call to the mock transitioner.
type transitionCall struct {
	ID           uuid.UUID
	Next         domain.Status
	ErrorMessage string
}

type mockTransitioner struct {
	mu    sync.Mutex
	calls []transitionCall
	errFn func(id uuid.UUID, next domain.Status) error
}

func (m *mockTransitioner) Transition(ctx context.Context, id uuid.UUID, next domain.Status, errorMessage string) (*domain.ProcessingStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errFn != nil {
		if err := m.errFn(id, next); err != nil {
			return nil, err
		}
	}
	m.calls = append(m.calls, transitionCall{ID: id, Next: next, ErrorMessage: errorMessage})
	return &domain.ProcessingStatus{ID: id, Status: next, ErrorMessage: errorMessage}, nil
}

func (m *mockTransitioner) Calls() []transitionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]transitionCall, len(m.calls))
	copy(out, m.calls)
	return out
}

type notifyCall struct {
	SubjectID    uuid.UUID
	Status       domain.Status
	ErrorMessage string
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	done  chan struct{}
}

func newMockNotifier(expected int) *mockNotifier {
	n := &mockNotifier{}
	if expected > 0 {
		n.done = make(chan struct{}, expected)
	}
	return n
}

func (m *mockNotifier) Notify(subjectID uuid.UUID, status domain.Status, errorMessage string) {
	m.mu.Lock()
	m.calls = append(m.calls, notifyCall{SubjectID: subjectID, Status: status, ErrorMessage: errorMessage})
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
}

func (m *mockNotifier) Calls() []notifyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notifyCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// mockTask is a configurable Task implementation.
type mockTask struct {
	id        uuid.UUID
	subjectID uuid.UUID
	ownerID   uuid.UUID
	taskType  domain.TaskType
	executeFn func(ctx context.Context) error
}

func newMockTask(executeFn func(ctx context.Context) error) *mockTask {
	return &mockTask{
		id:        uuid.New(),
		subjectID: uuid.New(),
		ownerID:   uuid.New(),
		taskType:  domain.TaskTypeUploadedResume,
		executeFn: executeFn,
	}
}

func (t *mockTask) ID() uuid.UUID          { return t.id }
func (t *mockTask) Type() domain.TaskType  { return t.taskType }
func (t *mockTask) OwnerID() uuid.UUID     { return t.ownerID }
func (t *mockTask) SubjectID() uuid.UUID   { return t.subjectID }
func (t *mockTask) Execute(ctx context.Context) error {
	if t.executeFn != nil {
		return t.executeFn(ctx)
	}
	return nil
}

// mockFreeformStore is an in-memory store.FreeformStore.
type mockFreeformStore struct {
	entries map[uuid.UUID]*domain.FreeformEntry
	getErr  error
	updErr  error
}

func newMockFreeformStore() *mockFreeformStore {
	return &mockFreeformStore{entries: make(map[uuid.UUID]*domain.FreeformEntry)}
}

func (m *mockFreeformStore) Create(ctx context.Context, entry *domain.FreeformEntry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockFreeformStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FreeformEntry, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	entry, ok := m.entries[id]
	if !ok {
		return nil, store.ErrFreeformNotFound
	}
	cp := *entry
	return &cp, nil
}

func (m *mockFreeformStore) Update(ctx context.Context, entry *domain.FreeformEntry) error {
	if m.updErr != nil {
		return m.updErr
	}
	if _, ok := m.entries[entry.ID]; !ok {
		return store.ErrFreeformNotFound
	}
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *mockFreeformStore) WithTx(tx *sql.Tx) store.FreeformStore { return m }

// mockEmploymentStore is an in-memory store.EmploymentStore.
type mockEmploymentStore struct {
	records   map[uuid.UUID]*domain.EmploymentRecord
	createErr error
	updateErr error
}

func newMockEmploymentStore() *mockEmploymentStore {
	return &mockEmploymentStore{records: make(map[uuid.UUID]*domain.EmploymentRecord)}
}

func (m *mockEmploymentStore) CreateAll(ctx context.Context, records []*domain.EmploymentRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, rec := range records {
		cp := *rec
		m.records[rec.ID] = &cp
	}
	return nil
}

func (m *mockEmploymentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmploymentRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, store.ErrEmploymentNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockEmploymentStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.EmploymentRecord, error) {
	var out []*domain.EmploymentRecord
	for _, rec := range m.records {
		if rec.OwnerID == ownerID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockEmploymentStore) Update(ctx context.Context, rec *domain.EmploymentRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.records[rec.ID]; !ok {
		return store.ErrEmploymentNotFound
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *mockEmploymentStore) WithTx(tx *sql.Tx) store.EmploymentStore { return m }

// mockEducationStore is an in-memory store.EducationStore.
type mockEducationStore struct {
	records []*domain.EducationRecord
}

func (m *mockEducationStore) CreateAll(ctx context.Context, records []*domain.EducationRecord) error {
	m.records = append(m.records, records...)
	return nil
}

func (m *mockEducationStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.EducationRecord, error) {
	var out []*domain.EducationRecord
	for _, rec := range m.records {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockEducationStore) WithTx(tx *sql.Tx) store.EducationStore { return m }

// mockSkillStore is an in-memory store.SkillStore.
type mockSkillStore struct {
	skills []*domain.SkillRecord
}

func (m *mockSkillStore) FindByNormalizedName(ctx context.Context, ownerID uuid.UUID, key string) (*domain.SkillRecord, error) {
	for _, s := range m.skills {
		if s.OwnerID == ownerID && domain.NormalizeSkillName(s.Name) == key {
			return s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockSkillStore) InsertIfAbsent(ctx context.Context, skill *domain.SkillRecord) (*domain.SkillRecord, error) {
	if existing, err := m.FindByNormalizedName(ctx, skill.OwnerID, domain.NormalizeSkillName(skill.Name)); err == nil {
		return existing, nil
	}
	m.skills = append(m.skills, skill)
	return skill, nil
}

func (m *mockSkillStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.SkillRecord, error) {
	var out []*domain.SkillRecord
	for _, s := range m.skills {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

// mockListingStore is an in-memory store.ListingStore.
type mockListingStore struct {
	listings map[uuid.UUID]*domain.JobListing
}

func newMockListingStore() *mockListingStore {
	return &mockListingStore{listings: make(map[uuid.UUID]*domain.JobListing)}
}

func (m *mockListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobListing, error) {
	listing, ok := m.listings[id]
	if !ok {
		return nil, store.ErrListingNotFound
	}
	return listing, nil
}

// mockResumeStore is an in-memory store.ResumeStore.
type mockResumeStore struct {
	resumes   map[uuid.UUID]*domain.GeneratedResume
	updateErr error
}

func newMockResumeStore() *mockResumeStore {
	return &mockResumeStore{resumes: make(map[uuid.UUID]*domain.GeneratedResume)}
}

func (m *mockResumeStore) Create(ctx context.Context, resume *domain.GeneratedResume) error {
	m.resumes[resume.ID] = resume
	return nil
}

func (m *mockResumeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedResume, error) {
	resume, ok := m.resumes[id]
	if !ok {
		return nil, store.ErrResumeNotFound
	}
	return resume, nil
}

func (m *mockResumeStore) UpdateContent(ctx context.Context, id uuid.UUID, content json.RawMessage) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	resume, ok := m.resumes[id]
	if !ok {
		return store.ErrResumeNotFound
	}
	resume.Content = content
	return nil
}

func (m *mockResumeStore) WithTx(tx *sql.Tx) store.ResumeStore { return m }

// mockDocumentStore is an in-memory store.DocumentStore.
type mockDocumentStore struct {
	docs map[uuid.UUID]*domain.UploadedDocument
}

func (m *mockDocumentStore) Create(ctx context.Context, doc *domain.UploadedDocument) error {
	if m.docs == nil {
		m.docs = make(map[uuid.UUID]*domain.UploadedDocument)
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.UploadedDocument, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *mockDocumentStore) UpdateExtractedText(ctx context.Context, id uuid.UUID, text string) error {
	doc, ok := m.docs[id]
	if !ok {
		return store.ErrDocumentNotFound
	}
	doc.ExtractedText = text
	return nil
}

func (m *mockDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore { return m }

// mockTextExtractor is a configurable extract.TextExtractor.
type mockTextExtractor struct {
	text string
	err  error
}

func (m *mockTextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// mockSkillReconciler records skill names handed to AddSkills.
type mockSkillReconciler struct {
	added []string
	err   error
}

func (m *mockSkillReconciler) AddSkills(ctx context.Context, ownerID uuid.UUID, names []string) ([]*domain.SkillRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.SkillRecord, 0, len(names))
	for _, name := range names {
		m.added = append(m.added, name)
		rec, err := domain.NewSkillRecord(ownerID, name)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// mockRecordExtractor is a configurable generation.RecordExtractor.
type mockRecordExtractor struct {
	profile       *generation.ExtractedProfile
	employment    *generation.CandidateEmployment
	extractErr    error
	employmentErr error
	calls         int
}

func (m *mockRecordExtractor) ExtractRecords(ctx context.Context, text string) (*generation.ExtractedProfile, error) {
	m.calls++
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.profile, nil
}

func (m *mockRecordExtractor) ExtractEmployment(ctx context.Context, narrative string) (*generation.CandidateEmployment, error) {
	m.calls++
	if m.employmentErr != nil {
		return nil, m.employmentErr
	}
	return m.employment, nil
}

// mockResumeGenerator is a configurable generation.ResumeGenerator.
type mockResumeGenerator struct {
	content json.RawMessage
	err     error
	calls   int
}

func (m *mockResumeGenerator) GenerateResume(ctx context.Context, input generation.ResumeInput) (json.RawMessage, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.content, nil
}
