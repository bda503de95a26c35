package domain

import "time"

// Event is the aggregate for published and draft events.
type Event struct {
	ID              string
	OrganizerID     string
	Title           string
	Description     string
	Category        string
	Venue           string
	City            string
	Date            time.Time
	Capacity        int
	RegisteredCount int
	Views           int64
	IsPublished     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SeatsLeft returns the remaining seats, never negative.
func (e *Event) SeatsLeft() int {
	left := e.Capacity - e.RegisteredCount
	if left < 0 {
		return 0
	}
	return left
}
