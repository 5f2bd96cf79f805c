package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/api/shared"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/service"
	"github.com/vitaehq/vitae-api/internal/store"
)

// StatusResponse represents the response data for a processing status.
type StatusResponse struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	TaskType     string     `json:"task_type"`
	SubjectID    string     `json:"subject_id"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// StatusHandler handles processing-status HTTP requests.
type StatusHandler struct {
	statuses *service.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statuses *service.StatusService) *StatusHandler {
	return &StatusHandler{statuses: statuses}
}

// GetStatus handles GET /api/status/{id} requests.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status ID")
		return
	}

	status, err := h.statuses.GetByID(r.Context(), id)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Status not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to retrieve status", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statusToResponse(status))
}

// ListStatuses handles GET /api/status requests. The limit query
// parameter is clamped by the service; a missing or unparsable value is
// treated as out-of-range and replaced by the default page size.
func (h *StatusHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	statuses, err := h.statuses.GetLatest(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list statuses", err)
		return
	}

	responses := make([]StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		responses = append(responses, statusToResponse(status))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

func statusToResponse(status *domain.ProcessingStatus) StatusResponse {
	return StatusResponse{
		ID:           status.ID.String(),
		OwnerID:      status.OwnerID.String(),
		TaskType:     string(status.TaskType),
		SubjectID:    status.SubjectID.String(),
		Status:       string(status.Status),
		ErrorMessage: status.ErrorMessage,
		StartedAt:    status.StartedAt,
		CompletedAt:  status.CompletedAt,
	}
}
