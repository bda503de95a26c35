package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "ACTIVE"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// PersonalDetails is the registrant snapshot embedded in every ticket.
// FullName, Email and Phone are required at registration time.
type PersonalDetails struct {
	FullName            string
	Email               string
	Phone               string
	Age                 *int
	Gender              *string
	Organization        *string
	SpecialRequirements *string
}

// Ticket is the aggregate for event registrations. Tickets are never
// physically deleted; cancellation flips Status to CANCELLED.
type Ticket struct {
	ID        string
	Code      string
	EventID   string
	UserID    string
	Details   PersonalDetails
	QRCode    *string
	Status    TicketStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	// Event is populated on listing surfaces that join the ticket with
	// its event; nil elsewhere.
	Event *Event
}
