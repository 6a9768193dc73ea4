package service

import (
	"sync"

	"smartbus/internal/canvas"
)

// EventType defines the type of event
type EventType string

const (
	EventNodeCreated       EventType = EventType(canvas.OpAddNode)
	EventNodeUpdated       EventType = EventType(canvas.OpUpdateNode)
	EventNodeDeleted       EventType = EventType(canvas.OpDeleteNode)
	EventConnectionCreated EventType = EventType(canvas.OpAddConnection)
	EventConnectionDeleted EventType = EventType(canvas.OpDeleteConnection)
	EventZoomChanged       EventType = EventType(canvas.OpSetZoom)
	EventPanChanged        EventType = EventType(canvas.OpSetPan)
	EventSelectionChanged  EventType = EventType(canvas.OpSelect)
	EventSessionOpened     EventType = "session_opened"
	EventSessionClosed     EventType = "session_closed"
	EventPaletteChanged    EventType = "palette_changed"
)

// Event represents an event that occurred in a session. Events with an empty
// Session concern every client.
type Event struct {
	Type    EventType   `json:"type"`
	Session string      `json:"session"`
	Payload interface{} `json:"payload,omitempty"`
}

// Scope returns the session the event belongs to
func (e Event) Scope() string {
	return e.Session
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

// MutationRecorder counts store mutations
type MutationRecorder interface {
	RecordMutation(op string)
}

// ChangePublisher returns a session change hook that publishes every store
// change on bus and records it on rec. rec may be nil.
func ChangePublisher(bus *EventBus, rec MutationRecorder) func(sessionID string, c canvas.Change) {
	return func(sessionID string, c canvas.Change) {
		if rec != nil {
			rec.RecordMutation(string(c.Op))
		}
		bus.Publish(Event{
			Type:    EventType(c.Op),
			Session: sessionID,
			Payload: c,
		})
	}
}
