package processor

import (
	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/models"
)

type EventType string

const (
	EventEnqueued   EventType = "enqueued"
	EventStarted    EventType = "started"
	EventStopped    EventType = "stopped"
	EventProcessing EventType = "processing"
	EventCompleted  EventType = "completed"
	EventSuccess    EventType = "success"
	EventFailed     EventType = "failed"
	EventError      EventType = "error"
	EventCleared    EventType = "cleared"
)

// Event is the queue's observability signal, consumed by monitoring and tests.
type Event struct {
	Type    EventType
	VideoID uuid.UUID
	Result  *models.SensitivityResult
	Message string
	Err     error
}

// OnEvent registers a listener for queue events. Listeners are invoked
// synchronously from queue goroutines and must not block.
func (q *Queue) OnEvent(fn func(Event)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listeners = append(q.listeners, fn)
}

func (q *Queue) emit(ev Event) {
	q.mu.Lock()
	listeners := make([]func(Event), len(q.listeners))
	copy(listeners, q.listeners)
	q.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}
