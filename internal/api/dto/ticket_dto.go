package dto

import (
	"time"

	"github.com/rizwanhussain01/EventHub/internal/domain"
)

// RegisterForEventRequest carries the registrant's personal details.
type RegisterForEventRequest struct {
	FullName            string  `json:"full_name"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	Age                 *int    `json:"age,omitempty"`
	Gender              *string `json:"gender,omitempty"`
	Organization        *string `json:"organization,omitempty"`
	SpecialRequirements *string `json:"special_requirements,omitempty"`
}

// Details maps the request onto the domain snapshot.
func (r RegisterForEventRequest) Details() domain.PersonalDetails {
	return domain.PersonalDetails{
		FullName:            r.FullName,
		Email:               r.Email,
		Phone:               r.Phone,
		Age:                 r.Age,
		Gender:              r.Gender,
		Organization:        r.Organization,
		SpecialRequirements: r.SpecialRequirements,
	}
}

// PersonalDetailsResponse payload.
type PersonalDetailsResponse struct {
	FullName            string  `json:"full_name"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	Age                 *int    `json:"age,omitempty"`
	Gender              *string `json:"gender,omitempty"`
	Organization        *string `json:"organization,omitempty"`
	SpecialRequirements *string `json:"special_requirements,omitempty"`
}

// TicketResponse payload. Event is present on surfaces that join it.
type TicketResponse struct {
	ID        string                  `json:"id"`
	Code      string                  `json:"code"`
	EventID   string                  `json:"event_id"`
	UserID    string                  `json:"user_id"`
	Details   PersonalDetailsResponse `json:"personal_details"`
	QRCode    *string                 `json:"qr_code"`
	Status    domain.TicketStatus     `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	Event     *EventResponse          `json:"event,omitempty"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:      ticket.ID,
		Code:    ticket.Code,
		EventID: ticket.EventID,
		UserID:  ticket.UserID,
		Details: PersonalDetailsResponse{
			FullName:            ticket.Details.FullName,
			Email:               ticket.Details.Email,
			Phone:               ticket.Details.Phone,
			Age:                 ticket.Details.Age,
			Gender:              ticket.Details.Gender,
			Organization:        ticket.Details.Organization,
			SpecialRequirements: ticket.Details.SpecialRequirements,
		},
		QRCode:    ticket.QRCode,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt,
	}
	if ticket.Event != nil {
		event := NewEventResponse(ticket.Event)
		resp.Event = &event
	}
	return resp
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(items []domain.Ticket) []TicketResponse {
	resp := make([]TicketResponse, 0, len(items))
	for i := range items {
		resp = append(resp, NewTicketResponse(&items[i]))
	}
	return resp
}
