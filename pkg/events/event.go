package events

import "time"

// Event defines the contract for everything published on the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ACTION_NOTIFY").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a generic event carrier.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string                { return e.Type }
func (e BaseEvent) Payload() map[string]interface{}  { return e.Data }
func (e BaseEvent) Timestamp() time.Time             { return e.OccurredAt }
