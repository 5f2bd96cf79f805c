// Package notify implements the one-shot completion notification hub.
// Callers subscribe by subject id and receive exactly one terminal event
// when the task owning that subject finishes; there is no buffering or
// replay, so clients that were not subscribed at completion time must
// fall back to polling the status tracker.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
)

// DefaultIdleTimeout is how long an unanswered subscription is kept
// before being evicted without an event.
const DefaultIdleTimeout = 5 * time.Minute

// Event is the single terminal notification pushed to a subscriber.
type Event struct {
	Status    domain.Status `json:"status"`
	SubjectID uuid.UUID     `json:"subject_id"`
	Error     string        `json:"error,omitempty"`
}

type subscription struct {
	ch    chan Event
	timer *time.Timer
}

// Hub is a registry mapping subject id to at most one live subscription
// channel. The registry is process-wide mutable state; all access goes
// through the mutex so subscribe, notify and eviction for the same
// subject are mutually exclusive.
type Hub struct {
	mu          sync.Mutex
	subs        map[uuid.UUID]*subscription
	idleTimeout time.Duration
	logger      *slog.Logger
}

// NewHub creates a Hub with the given idle timeout.
// A non-positive timeout falls back to DefaultIdleTimeout.
func NewHub(idleTimeout time.Duration, logger *slog.Logger) *Hub {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:        make(map[uuid.UUID]*subscription),
		idleTimeout: idleTimeout,
		logger:      logger.With("component", "notify_hub"),
	}
}

// Subscribe creates the subscription channel for the given subject,
// replacing (and closing) any previous channel for the same subject.
// If the idle timeout elapses before a terminal event arrives, the
// channel is closed and removed without error.
func (h *Hub) Subscribe(subjectID uuid.UUID) <-chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.subs[subjectID]; ok {
		prev.timer.Stop()
		close(prev.ch)
		delete(h.subs, subjectID)
		h.logger.Debug("replaced existing subscription", "subject_id", subjectID)
	}

	// Buffer of one so Notify never blocks on a slow reader.
	ch := make(chan Event, 1)
	sub := &subscription{ch: ch}
	sub.timer = time.AfterFunc(h.idleTimeout, func() {
		h.evict(subjectID, sub)
	})
	h.subs[subjectID] = sub

	return ch
}

// Notify pushes exactly one terminal event to the subject's subscriber,
// then closes and removes the channel. If there is no active subscriber
// the event is dropped.
func (h *Hub) Notify(subjectID uuid.UUID, status domain.Status, errorMessage string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[subjectID]
	if !ok {
		h.logger.Debug("no subscriber for terminal event, dropping",
			"subject_id", subjectID,
			"status", status)
		return
	}

	sub.timer.Stop()
	delete(h.subs, subjectID)

	select {
	case sub.ch <- Event{Status: status, SubjectID: subjectID, Error: errorMessage}:
	default:
		// Channel already holds an event; should not happen with the
		// one-shot contract, but never block the worker on it.
		h.logger.Warn("subscription channel full, event dropped",
			"subject_id", subjectID)
	}
	close(sub.ch)
}

// Len reports the number of live subscriptions. Used by tests and metrics.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// evict removes an idle subscription. The sub pointer is compared so a
// timeout firing after the slot was replaced cannot evict its successor.
func (h *Hub) evict(subjectID uuid.UUID, sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.subs[subjectID]
	if !ok || current != sub {
		return
	}
	close(current.ch)
	delete(h.subs, subjectID)
	h.logger.Debug("evicted idle subscription", "subject_id", subjectID)
}
