package dto

import (
	"time"

	"github.com/rizwanhussain01/EventHub/internal/domain"
)

// EventRequest payload for create/update. Date and Time arrive as the form
// fields "YYYY-MM-DD" and "HH:MM"; Time may be empty.
type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Venue       string `json:"venue"`
	City        string `json:"city"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Capacity    int    `json:"capacity"`
	IsPublished bool   `json:"is_published"`
}

// StartsAt combines the date and time fields into one instant.
func (r EventRequest) StartsAt() (time.Time, error) {
	if r.Time == "" {
		return time.Parse("2006-01-02", r.Date)
	}
	return time.Parse("2006-01-02 15:04", r.Date+" "+r.Time)
}

// EventResponse payload.
type EventResponse struct {
	ID              string    `json:"id"`
	OrganizerID     string    `json:"organizer_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Venue           string    `json:"venue"`
	City            string    `json:"city"`
	Date            time.Time `json:"date"`
	Capacity        int       `json:"capacity"`
	RegisteredCount int       `json:"registered_count"`
	SeatsLeft       int       `json:"seats_left"`
	Views           int64     `json:"views"`
	IsPublished     bool      `json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEventResponse maps a domain event.
func NewEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:              event.ID,
		OrganizerID:     event.OrganizerID,
		Title:           event.Title,
		Description:     event.Description,
		Category:        event.Category,
		Venue:           event.Venue,
		City:            event.City,
		Date:            event.Date,
		Capacity:        event.Capacity,
		RegisteredCount: event.RegisteredCount,
		SeatsLeft:       event.SeatsLeft(),
		Views:           event.Views,
		IsPublished:     event.IsPublished,
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
	}
}

// NewEventResponses maps a slice of domain events.
func NewEventResponses(items []domain.Event) []EventResponse {
	resp := make([]EventResponse, 0, len(items))
	for i := range items {
		resp = append(resp, NewEventResponse(&items[i]))
	}
	return resp
}
