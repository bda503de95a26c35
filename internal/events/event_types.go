package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRegistrationCompleted EventType = "registration_completed"
	EventTicketCancelled       EventType = "ticket_cancelled"
	EventPublished             EventType = "event_published"
	EventDeleted               EventType = "event_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RegistrationCompletedPayload payload.
type RegistrationCompletedPayload struct {
	TicketID    string `json:"ticket_id"`
	TicketCode  string `json:"ticket_code"`
	EventID     string `json:"event_id"`
	HasArtifact bool   `json:"has_artifact"`
}

// TicketCancelledPayload payload.
type TicketCancelledPayload struct {
	TicketID string `json:"ticket_id"`
	EventID  string `json:"event_id"`
}

// EventPublishedPayload payload.
type EventPublishedPayload struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
}

// EventDeletedPayload payload.
type EventDeletedPayload struct {
	EventID string `json:"event_id"`
}
