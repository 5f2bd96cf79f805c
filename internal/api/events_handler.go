package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/api/shared"
	"github.com/vitaehq/vitae-api/internal/notify"
	"github.com/vitaehq/vitae-api/internal/platform/logger"
)

// CompletionEvent is the SSE payload sent when a subject reaches a
// terminal status.
type CompletionEvent struct {
	SubjectID string `json:"subject_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// EventsHandler streams task completion notifications over
// server-sent events.
type EventsHandler struct {
	hub *notify.Hub
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *notify.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// StreamEvents handles GET /api/status/{subjectID}/events requests. The
// connection delivers exactly one terminal event and then closes. If the
// subscription idles past the hub's eviction window, or the client goes
// away, the stream closes without an event.
func (h *EventsHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(chi.URLParam(r, "subjectID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid subject ID")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Streaming not supported")
		return
	}

	log := logger.FromContext(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := h.hub.Subscribe(subjectID)

	select {
	case event, open := <-events:
		if !open {
			// Evicted or replaced by a newer subscriber.
			log.Debug("subscription closed without event", "subject_id", subjectID)
			return
		}
		payload, err := json.Marshal(CompletionEvent{
			SubjectID: event.SubjectID.String(),
			Status:    string(event.Status),
			Error:     event.Error,
		})
		if err != nil {
			log.Error("failed to encode completion event", "error", err)
			return
		}
		fmt.Fprintf(w, "event: completion\ndata: %s\n\n", payload)
		flusher.Flush()
	case <-r.Context().Done():
		log.Debug("event stream client went away", "subject_id", subjectID)
	}
}
