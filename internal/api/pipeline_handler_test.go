package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaehq/vitae-api/internal/domain"
)

func newPipelineRouter(t *testing.T) (chi.Router, *testPipeline) {
	t.Helper()
	pipeline := newTestPipeline(t)
	handler := NewPipelineHandler(pipeline.svc)
	r := chi.NewRouter()
	r.Post("/api/documents", handler.SubmitDocument)
	r.Post("/api/freeform", handler.SubmitFreeform)
	r.Post("/api/resumes/generate", handler.SubmitGeneration)
	return r, pipeline
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitDocument_MalformedJSON(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/documents", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitDocument_MissingFields(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/documents", `{"owner_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Validation error")
}

func TestSubmitDocument_InvalidOwnerID(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/documents",
		`{"owner_id":"nope","title":"resume.pdf","content":"aGVsbG8="}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitDocument_InvalidBase64(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/documents",
		`{"owner_id":"`+uuid.NewString()+`","title":"resume.pdf","content":"%%%not-base64%%%"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "base64")
}

func TestSubmitFreeform_MissingText(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/freeform", `{"owner_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitFreeform_InvalidEntryID(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/freeform",
		`{"owner_id":"`+uuid.NewString()+`","text":"led the team","entry_id":"not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitFreeform_UnknownEntryMapsTo404(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/freeform",
		`{"owner_id":"`+uuid.NewString()+`","text":"led the team","entry_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitFreeform_ForeignEntryMapsTo403(t *testing.T) {
	router, pipeline := newPipelineRouter(t)

	entry, err := domain.NewFreeformEntry(uuid.New(), "original narrative")
	require.NoError(t, err)
	require.NoError(t, pipeline.entries.Create(context.Background(), entry))

	rec := postJSON(router, "/api/freeform",
		`{"owner_id":"`+uuid.NewString()+`","text":"updated","entry_id":"`+entry.ID.String()+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitGeneration_UnknownListingMapsTo404(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/resumes/generate",
		`{"owner_id":"`+uuid.NewString()+`","job_listing_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitGeneration_ForeignListingMapsTo403(t *testing.T) {
	router, pipeline := newPipelineRouter(t)

	listing := &domain.JobListing{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Title:       "Backend Engineer",
		Description: "Build the ingestion pipeline.",
		CreatedAt:   time.Now().UTC(),
	}
	pipeline.listings.Put(listing)

	rec := postJSON(router, "/api/resumes/generate",
		`{"owner_id":"`+uuid.NewString()+`","job_listing_id":"`+listing.ID.String()+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitGeneration_MissingListingID(t *testing.T) {
	router, _ := newPipelineRouter(t)

	rec := postJSON(router, "/api/resumes/generate", `{"owner_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
