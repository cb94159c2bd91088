// Package feed delivers row changes of owner-scoped tables to subscribers.
package feed

import (
	"encoding/json"
	"fmt"
)

// EventType is the kind of row change
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Names of the stream control events sent besides the change events
const (
	StreamReady = "ready"
	StreamReset = "reset"
	StreamPing  = "ping"
)

// Event is one row change. Record holds the row after the change,
// or the removed row for deletes.
type Event struct {
	Type    EventType       `json:"type"`
	Table   string          `json:"table"`
	OwnerID string          `json:"owner_id"`
	Record  json.RawMessage `json:"record"`
}

// IsValid validates the event type
func (t EventType) IsValid() bool {
	switch t {
	case EventInsert, EventUpdate, EventDelete:
		return true
	default:
		return false
	}
}

// NewEvent marshals record into an Event
func NewEvent(typ EventType, table, owner string, record any) (Event, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s record: %w", table, err)
	}
	return Event{Type: typ, Table: table, OwnerID: owner, Record: raw}, nil
}

// Decode unmarshals the record into v
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Record, v); err != nil {
		return fmt.Errorf("failed to decode %s event record: %w", e.Table, err)
	}
	return nil
}

// Publisher accepts events for fan-out
type Publisher interface {
	Publish(e Event)
}

// NopPublisher drops every event. Used when the database itself emits changes.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
