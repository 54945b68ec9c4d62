package models

import "time"

// EventType classifies a polling update.
type EventType string

const (
	EventTypeBooking  EventType = "booking"
	EventTypeMessage  EventType = "message"
	EventTypeLocation EventType = "location"
)

// Event is an ephemeral notification delivered to a recipient's polling
// queue. Events are a convenience signal, not the source of truth; clients
// re-fetch authoritative state on receipt.
type Event struct {
	Type      EventType      `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}
