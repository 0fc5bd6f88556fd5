package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "FILE_PROCESSED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Lifecycle events emitted by the background jobs. Purely observational:
// nothing in the request path depends on them being delivered.

func NewFileProcessed(sessionId, kind string, jobErr error) Event {
	data := map[string]interface{}{
		"session_id": sessionId,
		"kind":       kind,
		"success":    jobErr == nil,
	}
	if jobErr != nil {
		data["error"] = jobErr.Error()
	}
	return BaseEvent{Type: "FILE_PROCESSED", Data: data, OccurredAt: time.Now()}
}

func NewAnswerGenerated(sessionId string, jobErr error) Event {
	data := map[string]interface{}{
		"session_id": sessionId,
		"success":    jobErr == nil,
	}
	if jobErr != nil {
		data["error"] = jobErr.Error()
	}
	return BaseEvent{Type: "ANSWER_GENERATED", Data: data, OccurredAt: time.Now()}
}
