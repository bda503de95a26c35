package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/rizwanhussain01/EventHub/internal/domain"
	"github.com/rizwanhussain01/EventHub/internal/repository"
	apperrors "github.com/rizwanhussain01/EventHub/pkg/util"
)

// PlatformStats aggregates the admin dashboard numbers.
type PlatformStats struct {
	TotalUsers      int64
	TotalEvents     int64
	PublishedEvents int64
	ActiveTickets   int64
	TotalViews      int64
}

// AdminService implements user and event moderation.
type AdminService struct {
	users   repository.UserRepository
	events  repository.EventRepository
	tickets repository.TicketRepository
}

// NewAdminService constructs the service.
func NewAdminService(users repository.UserRepository, events repository.EventRepository, tickets repository.TicketRepository) *AdminService {
	return &AdminService{users: users, events: events, tickets: tickets}
}

// ListUsers returns platform accounts, newest first.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.User, userID string) error {
	if actor != nil && actor.ID == userID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListAllEvents returns events in any publish state for moderation.
func (s *AdminService) ListAllEvents(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	result, err := s.events.ListWithFilter(ctx, repository.EventFilter{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Stats returns platform-wide totals.
func (s *AdminService) Stats(ctx context.Context) (PlatformStats, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return PlatformStats{}, apperrors.MapError(err)
	}
	eventStats, err := s.events.Stats(ctx)
	if err != nil {
		return PlatformStats{}, apperrors.MapError(err)
	}
	activeTickets, err := s.tickets.CountActive(ctx)
	if err != nil {
		return PlatformStats{}, apperrors.MapError(err)
	}
	return PlatformStats{
		TotalUsers:      userCount,
		TotalEvents:     eventStats.TotalEvents,
		PublishedEvents: eventStats.PublishedEvents,
		ActiveTickets:   activeTickets,
		TotalViews:      eventStats.TotalViews,
	}, nil
}
