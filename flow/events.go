package flow

import (
	"sync"
	"time"

	"github.com/pauldambra/causal-flows/causal"
)

// EventType represents the type of session event.
type EventType string

const (
	EventGraphUpdated EventType = "graph_updated"
	EventTextSaved    EventType = "text_saved"
	EventStoreFailed  EventType = "store_failed"
)

// Event is an observable session event. Graph and Dropped are set for
// graph_updated, Err for store_failed.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Text      string        `json:"text"`
	Graph     *causal.Graph `json:"graph,omitempty"`
	Dropped   int           `json:"dropped"`
	Err       error         `json:"-"`
}

// Emitter manages event listeners and dispatches events.
type Emitter struct {
	mu        sync.RWMutex
	listeners []func(Event)
}

// NewEmitter creates a new Emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		listeners: make([]func(Event), 0),
	}
}

// On registers a listener function to receive events.
// Listeners are called synchronously in registration order.
func (e *Emitter) On(listener func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, listener)
}

// Emit dispatches an event to all registered listeners.
func (e *Emitter) Emit(event Event) {
	e.mu.RLock()
	listeners := make([]func(Event), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *Emitter) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

// GraphUpdatedEvent creates a graph_updated event.
func GraphUpdatedEvent(text string, g *causal.Graph, dropped int) Event {
	return Event{
		Type:      EventGraphUpdated,
		Timestamp: time.Now(),
		Text:      text,
		Graph:     g,
		Dropped:   dropped,
	}
}

// TextSavedEvent creates a text_saved event.
func TextSavedEvent(text string) Event {
	return Event{
		Type:      EventTextSaved,
		Timestamp: time.Now(),
		Text:      text,
	}
}

// StoreFailedEvent creates a store_failed event.
func StoreFailedEvent(text string, err error) Event {
	return Event{
		Type:      EventStoreFailed,
		Timestamp: time.Now(),
		Text:      text,
		Err:       err,
	}
}
