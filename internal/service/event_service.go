package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rizwanhussain01/EventHub/internal/cache"
	"github.com/rizwanhussain01/EventHub/internal/clock"
	"github.com/rizwanhussain01/EventHub/internal/domain"
	"github.com/rizwanhussain01/EventHub/internal/events"
	"github.com/rizwanhussain01/EventHub/internal/repository"
	apperrors "github.com/rizwanhussain01/EventHub/pkg/util"
)

// EventService manages the event catalog: creation, updates, publication,
// browsing and the view counter.
type EventService struct {
	events     repository.EventRepository
	cache      *cache.EventCache
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
}

// EventDependencies bundles collaborators for the service.
type EventDependencies struct {
	EventRepo  repository.EventRepository
	Cache      *cache.EventCache
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
}

// EventInput describes event creation/update payloads.
type EventInput struct {
	Title       string
	Description string
	Category    string
	Venue       string
	City        string
	Date        time.Time
	Capacity    int
	IsPublished bool
}

// BrowseFilter describes the public catalog filters.
type BrowseFilter struct {
	Category     string
	City         string
	Search       string
	UpcomingOnly bool
	Page         int
	PageSize     int
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	svc := &EventService{
		events:     deps.EventRepo,
		cache:      deps.Cache,
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

// CreateEvent creates an event owned by the organizer.
func (s *EventService) CreateEvent(ctx context.Context, organizerID string, input EventInput) (*domain.Event, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event := &domain.Event{
		OrganizerID: organizerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Venue:       strings.TrimSpace(input.Venue),
		City:        strings.TrimSpace(input.City),
		Date:        input.Date,
		Capacity:    input.Capacity,
		IsPublished: input.IsPublished,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	if event.IsPublished {
		s.publishEvent(ctx, organizerID, events.EventPublished, events.EventPublishedPayload{
			EventID: event.ID,
			Title:   event.Title,
		})
	}
	return event, nil
}

// UpdateEvent applies changes to an event owned by the actor (admins may
// edit any event).
func (s *EventService) UpdateEvent(ctx context.Context, actor *domain.User, eventID string, input EventInput) (*domain.Event, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event, err := s.getOwned(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	if input.Capacity < event.RegisteredCount {
		return nil, apperrors.NewValidationError("capacity cannot drop below the registered count", map[string]any{
			"registered_count": event.RegisteredCount,
		})
	}

	wasPublished := event.IsPublished
	event.Title = strings.TrimSpace(input.Title)
	event.Description = strings.TrimSpace(input.Description)
	event.Category = strings.TrimSpace(input.Category)
	event.Venue = strings.TrimSpace(input.Venue)
	event.City = strings.TrimSpace(input.City)
	event.Date = input.Date
	event.Capacity = input.Capacity
	event.IsPublished = input.IsPublished

	if err := s.events.Update(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, event.ID)

	if !wasPublished && event.IsPublished {
		s.publishEvent(ctx, actor.ID, events.EventPublished, events.EventPublishedPayload{
			EventID: event.ID,
			Title:   event.Title,
		})
	}
	return event, nil
}

// DeleteEvent removes an event owned by the actor (admins may delete any).
// Its tickets go with it; cancellation ledger updates for a deleted event
// are silently skipped.
func (s *EventService) DeleteEvent(ctx context.Context, actor *domain.User, eventID string) error {
	event, err := s.getOwned(ctx, actor, eventID)
	if err != nil {
		return err
	}
	if err := s.events.Delete(ctx, event.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, event.ID)
	s.publishEvent(ctx, actor.ID, events.EventDeleted, events.EventDeletedPayload{EventID: event.ID})
	return nil
}

// GetEvent returns one event. Published events are readable by anyone and
// served from the cache when possible; drafts only by their organizer or an
// admin. Public reads bump the view counter.
func (s *EventService) GetEvent(ctx context.Context, actor *domain.User, eventID string) (*domain.Event, error) {
	if cached := s.cache.Get(ctx, eventID); cached != nil {
		s.bumpViews(ctx, eventID)
		return cached, nil
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	if !event.IsPublished {
		if actor == nil || (actor.Role != domain.RoleAdmin && actor.ID != event.OrganizerID) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return event, nil
	}

	s.cache.Set(ctx, event)
	s.bumpViews(ctx, eventID)
	return event, nil
}

// Browse lists published events matching the public catalog filters.
func (s *EventService) Browse(ctx context.Context, filter BrowseFilter) ([]domain.Event, error) {
	repoFilter := repository.EventFilter{
		PublishedOnly: true,
		Limit:         filter.PageSize,
		Offset:        (filter.Page - 1) * filter.PageSize,
	}
	if filter.Category != "" {
		repoFilter.Category = &filter.Category
	}
	if filter.City != "" {
		repoFilter.City = &filter.City
	}
	if filter.Search != "" {
		repoFilter.SearchTerm = &filter.Search
	}
	if filter.UpcomingOnly {
		now := s.clock.Now()
		repoFilter.StartsAfter = &now
	}
	result, err := s.events.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListOrganizerEvents returns all events owned by the organizer, drafts
// included.
func (s *EventService) ListOrganizerEvents(ctx context.Context, organizerID string) ([]domain.Event, error) {
	result, err := s.events.ListWithFilter(ctx, repository.EventFilter{
		OrganizerID: &organizerID,
		Limit:       200,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (s *EventService) getOwned(ctx context.Context, actor *domain.User, eventID string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	if actor == nil || (actor.Role != domain.RoleAdmin && actor.ID != event.OrganizerID) {
		return nil, apperrors.NewForbidden("not authorized to manage this event")
	}
	return event, nil
}

func (s *EventService) bumpViews(ctx context.Context, eventID string) {
	if err := s.events.IncrementViews(ctx, eventID); err != nil {
		s.logger.Warn("view counter update failed", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (s *EventService) publishEvent(ctx context.Context, actorID string, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func validateEventInput(input EventInput) error {
	missing := []string{}
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(input.Venue) == "" {
		missing = append(missing, "venue")
	}
	if strings.TrimSpace(input.City) == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}
	if input.Capacity <= 0 {
		return apperrors.NewValidationError("capacity must be greater than 0", nil)
	}
	if input.Date.IsZero() {
		return apperrors.NewValidationError("event date is required", nil)
	}
	return nil
}
