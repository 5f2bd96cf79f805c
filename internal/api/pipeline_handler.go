package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/api/shared"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/service"
	"github.com/vitaehq/vitae-api/internal/store"
)

// SubmitDocumentRequest represents the request body for uploading a document.
type SubmitDocumentRequest struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
	Title   string `json:"title" validate:"required,min=1"`
	// Content is the raw document encoded as standard base64.
	Content string `json:"content" validate:"required,min=1"`
}

// SubmitFreeformRequest represents the request body for submitting a
// freeform career narrative. EntryID resubmits an existing entry.
type SubmitFreeformRequest struct {
	OwnerID string  `json:"owner_id" validate:"required,uuid"`
	Text    string  `json:"text" validate:"required,min=1"`
	EntryID *string `json:"entry_id,omitempty" validate:"omitempty,uuid"`
}

// SubmitGenerationRequest represents the request body for requesting a
// tailored resume.
type SubmitGenerationRequest struct {
	OwnerID      string `json:"owner_id" validate:"required,uuid"`
	JobListingID string `json:"job_listing_id" validate:"required,uuid"`
}

// SubmitResponse is the accepted-submission payload common to all three
// pipeline endpoints.
type SubmitResponse struct {
	SubjectID string `json:"subject_id"`
	StatusID  string `json:"status_id"`
	Status    string `json:"status"`
}

// PipelineHandler handles task submission HTTP requests.
type PipelineHandler struct {
	pipeline  *service.PipelineService
	validator *validator.Validate
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(pipeline *service.PipelineService) *PipelineHandler {
	return &PipelineHandler{
		pipeline:  pipeline,
		validator: validator.New(),
	}
}

// SubmitDocument handles POST /api/documents requests.
func (h *PipelineHandler) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	var req SubmitDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Content must be valid base64")
		return
	}

	ownerID := uuid.MustParse(req.OwnerID)
	result, err := h.pipeline.SubmitDocument(r.Context(), ownerID, req.Title, raw)
	if err != nil {
		respondSubmitError(w, r, err, "Failed to submit document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, toSubmitResponse(result))
}

// SubmitFreeform handles POST /api/freeform requests.
func (h *PipelineHandler) SubmitFreeform(w http.ResponseWriter, r *http.Request) {
	var req SubmitFreeformRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ownerID := uuid.MustParse(req.OwnerID)
	var entryID *uuid.UUID
	if req.EntryID != nil {
		id := uuid.MustParse(*req.EntryID)
		entryID = &id
	}

	result, err := h.pipeline.SubmitFreeform(r.Context(), ownerID, req.Text, entryID)
	if err != nil {
		respondSubmitError(w, r, err, "Failed to submit freeform entry")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, toSubmitResponse(result))
}

// SubmitGeneration handles POST /api/resumes/generate requests.
func (h *PipelineHandler) SubmitGeneration(w http.ResponseWriter, r *http.Request) {
	var req SubmitGenerationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ownerID := uuid.MustParse(req.OwnerID)
	listingID := uuid.MustParse(req.JobListingID)

	result, err := h.pipeline.SubmitGeneration(r.Context(), ownerID, listingID)
	if err != nil {
		respondSubmitError(w, r, err, "Failed to submit resume generation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, toSubmitResponse(result))
}

// respondSubmitError maps pipeline errors to HTTP status codes.
func respondSubmitError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrEmptyDocumentTitle),
		errors.Is(err, domain.ErrEmptyDocumentBytes):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid submission", err)
	case errors.Is(err, domain.ErrNotOwned):
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Not allowed", err)
	case store.IsNotFoundError(err):
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "Not found", err)
	case errors.Is(err, service.ErrQueueFull):
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
			"Server is busy, try again later", err)
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, fallback, err)
	}
}

func toSubmitResponse(result *service.SubmitResult) SubmitResponse {
	return SubmitResponse{
		SubjectID: result.SubjectID.String(),
		StatusID:  result.StatusID.String(),
		Status:    string(result.Status),
	}
}
