package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rizwanhussain01/EventHub/internal/clock"
	"github.com/rizwanhussain01/EventHub/internal/domain"
	"github.com/rizwanhussain01/EventHub/internal/events"
	"github.com/rizwanhussain01/EventHub/internal/repository"
	"github.com/rizwanhussain01/EventHub/internal/ticketing"
	apperrors "github.com/rizwanhussain01/EventHub/pkg/util"
)

// RegistrationService coordinates the registration and cancellation
// workflows: precondition checks, the capacity ledger, ticket creation and
// best-effort artifact enrichment.
type RegistrationService struct {
	events     repository.EventRepository
	tickets    repository.TicketRepository
	encoder    ticketing.ArtifactEncoder
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
}

// RegistrationDependencies bundles collaborators for the service.
type RegistrationDependencies struct {
	EventRepo  repository.EventRepository
	TicketRepo repository.TicketRepository
	Encoder    ticketing.ArtifactEncoder
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	svc := &RegistrationService{
		events:     deps.EventRepo,
		tickets:    deps.TicketRepo,
		encoder:    deps.Encoder,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
	if svc.clock == nil {
		svc.clock = clock.NewSystem()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// RegisterForEvent registers a user for an event and returns the new
// ticket. The seat is reserved with a single conditional increment before
// the ticket is inserted, so concurrent registrations can never overbook.
func (s *RegistrationService) RegisterForEvent(ctx context.Context, eventID, userID string, details domain.PersonalDetails) (*domain.Ticket, error) {
	details.FullName = strings.TrimSpace(details.FullName)
	details.Email = strings.TrimSpace(details.Email)
	details.Phone = strings.TrimSpace(details.Phone)
	if details.FullName == "" || details.Email == "" || details.Phone == "" {
		return nil, apperrors.NewValidationError("full name, email and phone are required", nil)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	if !event.IsPublished {
		return nil, apperrors.NewInvalidState("EVENT_NOT_AVAILABLE", "this event is not available for registration")
	}
	if event.Date.Before(s.clock.Now()) {
		return nil, apperrors.NewInvalidState("EVENT_NOT_AVAILABLE", "cannot register for past events")
	}

	existing, err := s.tickets.FindActive(ctx, eventID, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("ALREADY_REGISTERED", "you are already registered for this event", nil)
	}

	if err := s.events.ReserveSeat(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventFull) {
			return nil, apperrors.NewConflict("EVENT_FULL", "event is fully booked", nil)
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Code:    ticketing.NewCode(),
		EventID: eventID,
		UserID:  userID,
		Details: details,
		Status:  domain.TicketStatusActive,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.releaseSeat(ctx, eventID)
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			return nil, apperrors.NewConflict("ALREADY_REGISTERED", "you are already registered for this event", nil)
		}
		return nil, apperrors.MapError(err)
	}

	// Artifact generation is best-effort: the ticket stays valid without it.
	s.attachArtifact(ctx, ticket)

	s.publishEvent(ctx, events.Event{
		Type:    events.EventRegistrationCompleted,
		ActorID: userID,
		Payload: events.RegistrationCompletedPayload{
			TicketID:    ticket.ID,
			TicketCode:  ticket.Code,
			EventID:     eventID,
			HasArtifact: ticket.QRCode != nil,
		},
	})
	return ticket, nil
}

// CancelTicket soft-cancels a ticket owned by the requesting user and
// returns the seat to the event. Cancelling an already-cancelled ticket is
// a no-op that leaves the ledger untouched.
func (s *RegistrationService) CancelTicket(ctx context.Context, ticketID, userID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	if ticket.UserID != userID {
		return apperrors.NewForbidden("not authorized to cancel this ticket")
	}

	changed, err := s.tickets.CancelActive(ctx, ticketID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !changed {
		// Already cancelled; the ledger was decremented the first time.
		return nil
	}

	// The event may have been deleted since registration; releasing a seat
	// on a missing event is a silent no-op.
	if err := s.events.ReleaseSeat(ctx, ticket.EventID); err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketCancelled,
		ActorID: userID,
		Payload: events.TicketCancelledPayload{
			TicketID: ticketID,
			EventID:  ticket.EventID,
		},
	})
	return nil
}

// ListMyTickets returns the user's active tickets joined with their events,
// newest first.
func (s *RegistrationService) ListMyTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAttendees returns tickets for an event for its organizer (or an
// admin). Cancelled tickets are excluded unless explicitly requested.
func (s *RegistrationService) ListAttendees(ctx context.Context, requester *domain.User, eventID string, includeCancelled bool) ([]domain.Ticket, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	if requester == nil || (requester.Role != domain.RoleAdmin && event.OrganizerID != requester.ID) {
		return nil, apperrors.NewForbidden("not authorized to view attendees for this event")
	}
	tickets, err := s.tickets.ListByEvent(ctx, eventID, includeCancelled)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *RegistrationService) attachArtifact(ctx context.Context, ticket *domain.Ticket) {
	if s.encoder == nil {
		return
	}
	artifact, err := s.encoder.Encode(ticketing.ArtifactPayload{
		TicketID: ticket.Code,
		EventID:  ticket.EventID,
		UserID:   ticket.UserID,
		FullName: ticket.Details.FullName,
		Email:    ticket.Details.Email,
	})
	if err != nil {
		s.logger.Warn("ticket artifact generation failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return
	}
	if err := s.tickets.AttachArtifact(ctx, ticket.ID, artifact); err != nil {
		s.logger.Warn("ticket artifact persist failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return
	}
	ticket.QRCode = &artifact
}

func (s *RegistrationService) releaseSeat(ctx context.Context, eventID string) {
	if err := s.events.ReleaseSeat(ctx, eventID); err != nil {
		s.logger.Error("seat release failed after aborted registration",
			zap.String("event_id", eventID),
			zap.Error(err))
	}
}

func (s *RegistrationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
