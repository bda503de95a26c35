package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rizwanhussain01/EventHub/internal/clock"
	"github.com/rizwanhussain01/EventHub/internal/domain"
	"github.com/rizwanhussain01/EventHub/internal/repository"
	"github.com/rizwanhussain01/EventHub/internal/ticketing"
	apperrors "github.com/rizwanhussain01/EventHub/pkg/util"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func validDetails() domain.PersonalDetails {
	return domain.PersonalDetails{
		FullName: "Ann Example",
		Email:    "ann@example.com",
		Phone:    "111",
	}
}

func futureEvent(id string, capacity, registered int) *domain.Event {
	return &domain.Event{
		ID:              id,
		OrganizerID:     "org-1",
		Title:           "GopherCon",
		Category:        "tech",
		Venue:           "Hall A",
		City:            "Berlin",
		Date:            testNow.Add(48 * time.Hour),
		Capacity:        capacity,
		RegisteredCount: registered,
		IsPublished:     true,
	}
}

func makeRegistrationService(events []*domain.Event, encoder ticketing.ArtifactEncoder) (*RegistrationService, *fakeEventRepo, *fakeTicketRepo) {
	eventRepo := newFakeEventRepo(events)
	ticketRepo := newFakeTicketRepo(eventRepo)
	svc := NewRegistrationService(RegistrationDependencies{
		EventRepo:  eventRepo,
		TicketRepo: ticketRepo,
		Encoder:    encoder,
		Clock:      clock.NewFixed(testNow),
	})
	return svc, eventRepo, ticketRepo
}

func TestRegistrationService_RegisterForEvent(t *testing.T) {
	t.Parallel()

	t.Run("rejects missing personal details", func(t *testing.T) {
		svc, _, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})

		_, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", domain.PersonalDetails{
			FullName: "Ann",
			Email:    "  ",
			Phone:    "111",
		})
		assertDomainErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown event is not found", func(t *testing.T) {
		svc, _, _ := makeRegistrationService(nil, stubEncoder{})

		_, err := svc.RegisterForEvent(context.Background(), "missing", "user-1", validDetails())
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("draft event is not available", func(t *testing.T) {
		event := futureEvent("event-1", 10, 0)
		event.IsPublished = false
		svc, _, _ := makeRegistrationService([]*domain.Event{event}, stubEncoder{})

		_, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		assertDomainErrorCode(t, err, "EVENT_NOT_AVAILABLE")
	})

	t.Run("past event is not available", func(t *testing.T) {
		event := futureEvent("event-1", 10, 0)
		event.Date = testNow.Add(-time.Hour)
		svc, _, _ := makeRegistrationService([]*domain.Event{event}, stubEncoder{})

		_, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		assertDomainErrorCode(t, err, "EVENT_NOT_AVAILABLE")
	})

	t.Run("active duplicate registration conflicts", func(t *testing.T) {
		svc, _, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})

		if _, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails()); err != nil {
			t.Fatalf("first registration: %v", err)
		}
		_, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		assertDomainErrorCode(t, err, "ALREADY_REGISTERED")
	})

	t.Run("full event rejects registration", func(t *testing.T) {
		svc, eventRepo, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 2, 2)}, stubEncoder{})

		_, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		assertDomainErrorCode(t, err, "EVENT_FULL")

		if got := eventRepo.registeredCount("event-1"); got != 2 {
			t.Fatalf("ledger moved on rejected registration: %d", got)
		}
	})

	t.Run("success creates active ticket with artifact and bumps ledger", func(t *testing.T) {
		svc, eventRepo, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})

		ticket, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.Status != domain.TicketStatusActive {
			t.Fatalf("expected status %s, got %s", domain.TicketStatusActive, ticket.Status)
		}
		if !strings.HasPrefix(ticket.Code, "TICKET-") {
			t.Fatalf("unexpected ticket code %q", ticket.Code)
		}
		if ticket.QRCode == nil || *ticket.QRCode != "data:image/png;base64,stub" {
			t.Fatalf("expected artifact attached, got %v", ticket.QRCode)
		}
		if got := eventRepo.registeredCount("event-1"); got != 1 {
			t.Fatalf("expected registered count 1, got %d", got)
		}
	})

	t.Run("encoder failure still registers, without artifact", func(t *testing.T) {
		svc, eventRepo, ticketRepo := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, failingEncoder{})

		ticket, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.QRCode != nil {
			t.Fatalf("expected no artifact, got %q", *ticket.QRCode)
		}
		stored, err := ticketRepo.GetByID(context.Background(), ticket.ID)
		if err != nil {
			t.Fatalf("stored ticket: %v", err)
		}
		if stored.QRCode != nil {
			t.Fatalf("expected stored ticket without artifact")
		}
		if got := eventRepo.registeredCount("event-1"); got != 1 {
			t.Fatalf("expected registered count 1, got %d", got)
		}
	})

	t.Run("seat is released when ticket insert loses the uniqueness race", func(t *testing.T) {
		svc, eventRepo, ticketRepo := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})

		// Simulate a concurrent insert landing between the duplicate check
		// and this call's insert.
		ticketRepo.failNextCreateWith = repository.ErrAlreadyRegistered

		_, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		assertDomainErrorCode(t, err, "ALREADY_REGISTERED")
		if got := eventRepo.registeredCount("event-1"); got != 0 {
			t.Fatalf("seat leaked after aborted insert: %d", got)
		}
	})
}

func TestRegistrationService_CancelTicket(t *testing.T) {
	t.Parallel()

	t.Run("unknown ticket is not found", func(t *testing.T) {
		svc, _, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})

		err := svc.CancelTicket(context.Background(), "missing", "user-1")
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		svc, _, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})
		ticket, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		err = svc.CancelTicket(context.Background(), ticket.ID, "user-2")
		assertDomainErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("cancel decrements ledger exactly once", func(t *testing.T) {
		svc, eventRepo, ticketRepo := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})
		ticket, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		if err := svc.CancelTicket(context.Background(), ticket.ID, "user-1"); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got := eventRepo.registeredCount("event-1"); got != 0 {
			t.Fatalf("expected registered count 0, got %d", got)
		}
		stored, _ := ticketRepo.GetByID(context.Background(), ticket.ID)
		if stored.Status != domain.TicketStatusCancelled {
			t.Fatalf("expected cancelled status, got %s", stored.Status)
		}

		// Second cancel is a no-op: the ledger must not go below the truth.
		if err := svc.CancelTicket(context.Background(), ticket.ID, "user-1"); err != nil {
			t.Fatalf("repeat cancel: %v", err)
		}
		if got := eventRepo.registeredCount("event-1"); got != 0 {
			t.Fatalf("repeat cancel moved ledger: %d", got)
		}
	})

	t.Run("cancel succeeds when the event is gone", func(t *testing.T) {
		svc, eventRepo, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})
		ticket, err := svc.RegisterForEvent(context.Background(), "event-1", "user-1", validDetails())
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if err := eventRepo.Delete(context.Background(), "event-1"); err != nil {
			t.Fatalf("delete event: %v", err)
		}

		if err := svc.CancelTicket(context.Background(), ticket.ID, "user-1"); err != nil {
			t.Fatalf("cancel after event deletion: %v", err)
		}
	})
}

func TestRegistrationService_FullLifecycle(t *testing.T) {
	t.Parallel()

	svc, eventRepo, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 1, 0)}, stubEncoder{})
	ctx := context.Background()

	first, err := svc.RegisterForEvent(ctx, "event-1", "user-a", domain.PersonalDetails{
		FullName: "Ann", Email: "a@x.com", Phone: "111",
	})
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if got := eventRepo.registeredCount("event-1"); got != 1 {
		t.Fatalf("expected registered count 1, got %d", got)
	}

	if _, err := svc.RegisterForEvent(ctx, "event-1", "user-b", validDetails()); err == nil {
		t.Fatal("expected capacity error for second registrant")
	} else {
		assertDomainErrorCode(t, err, "EVENT_FULL")
	}

	if err := svc.CancelTicket(ctx, first.ID, "user-a"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := eventRepo.registeredCount("event-1"); got != 0 {
		t.Fatalf("expected registered count 0 after cancel, got %d", got)
	}

	second, err := svc.RegisterForEvent(ctx, "event-1", "user-a", domain.PersonalDetails{
		FullName: "Ann", Email: "a@x.com", Phone: "111",
	})
	if err != nil {
		t.Fatalf("re-registration after cancel: %v", err)
	}
	if second.Code == first.Code {
		t.Fatalf("expected a fresh ticket code, got %q twice", first.Code)
	}

	mine, err := svc.ListMyTickets(ctx, "user-a")
	if err != nil {
		t.Fatalf("list tickets: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != second.ID {
		t.Fatalf("expected only the new active ticket, got %d", len(mine))
	}
	if mine[0].Event == nil || mine[0].Event.ID != "event-1" {
		t.Fatal("expected joined event on listed ticket")
	}
}

func TestRegistrationService_ConcurrentRegistrations(t *testing.T) {
	t.Parallel()

	const capacity = 5
	const attempts = 25

	svc, eventRepo, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", capacity, 0)}, stubEncoder{})

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.RegisterForEvent(context.Background(), "event-1", fmt.Sprintf("user-%d", n), validDetails())
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded, full := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			assertDomainErrorCode(t, err, "EVENT_FULL")
			full++
		}
	}
	if succeeded != capacity {
		t.Fatalf("expected exactly %d successes, got %d", capacity, succeeded)
	}
	if full != attempts-capacity {
		t.Fatalf("expected %d capacity rejections, got %d", attempts-capacity, full)
	}
	if got := eventRepo.registeredCount("event-1"); got != capacity {
		t.Fatalf("ledger out of bounds: %d", got)
	}
}

func TestRegistrationService_ListAttendees(t *testing.T) {
	t.Parallel()

	svc, _, _ := makeRegistrationService([]*domain.Event{futureEvent("event-1", 10, 0)}, stubEncoder{})
	ctx := context.Background()

	ticket, err := svc.RegisterForEvent(ctx, "event-1", "user-1", validDetails())
	if err != nil {
		t.Fatalf("register user-1: %v", err)
	}
	if _, err := svc.RegisterForEvent(ctx, "event-1", "user-2", validDetails()); err != nil {
		t.Fatalf("register user-2: %v", err)
	}
	if err := svc.CancelTicket(ctx, ticket.ID, "user-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	organizer := &domain.User{ID: "org-1", Role: domain.RoleOrganizer}

	active, err := svc.ListAttendees(ctx, organizer, "event-1", false)
	if err != nil {
		t.Fatalf("list attendees: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active attendee, got %d", len(active))
	}

	all, err := svc.ListAttendees(ctx, organizer, "event-1", true)
	if err != nil {
		t.Fatalf("list attendees incl cancelled: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tickets with history, got %d", len(all))
	}

	stranger := &domain.User{ID: "org-2", Role: domain.RoleOrganizer}
	_, err = svc.ListAttendees(ctx, stranger, "event-1", false)
	assertDomainErrorCode(t, err, "FORBIDDEN")

	admin := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	if _, err := svc.ListAttendees(ctx, admin, "event-1", false); err != nil {
		t.Fatalf("admin should see attendees: %v", err)
	}
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, domainErr.Code, domainErr.Message)
	}
}

type stubEncoder struct{}

func (stubEncoder) Encode(ticketing.ArtifactPayload) (string, error) {
	return "data:image/png;base64,stub", nil
}

type failingEncoder struct{}

func (failingEncoder) Encode(ticketing.ArtifactPayload) (string, error) {
	return "", errors.New("encoder exploded")
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
}

func newFakeEventRepo(events []*domain.Event) *fakeEventRepo {
	m := make(map[string]*domain.Event, len(events))
	for _, event := range events {
		copied := *event
		m[event.ID] = &copied
	}
	return &fakeEventRepo{events: m}
}

func (f *fakeEventRepo) registeredCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event, ok := f.events[id]; ok {
		return event.RegisteredCount
	}
	return -1
}

func (f *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.ID == "" {
		event.ID = fmt.Sprintf("event-%d", len(f.events)+1)
	}
	event.CreatedAt = time.Now()
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) ListWithFilter(_ context.Context, _ repository.EventFilter) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Event, 0, len(f.events))
	for _, event := range f.events {
		result = append(result, *event)
	}
	return result, nil
}

func (f *fakeEventRepo) IncrementViews(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event, ok := f.events[id]; ok {
		event.Views++
	}
	return nil
}

func (f *fakeEventRepo) ReserveSeat(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if event.RegisteredCount >= event.Capacity {
		return repository.ErrEventFull
	}
	event.RegisteredCount++
	return nil
}

func (f *fakeEventRepo) ReleaseSeat(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event, ok := f.events[id]; ok && event.RegisteredCount > 0 {
		event.RegisteredCount--
	}
	return nil
}

func (f *fakeEventRepo) Stats(_ context.Context) (repository.EventStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := repository.EventStats{}
	for _, event := range f.events {
		stats.TotalEvents++
		if event.IsPublished {
			stats.PublishedEvents++
		}
		stats.TotalViews += event.Views
	}
	return stats, nil
}

type fakeTicketRepo struct {
	mu                 sync.Mutex
	seq                int
	tickets            []*domain.Ticket
	eventRepo          *fakeEventRepo
	failNextCreateWith error
}

func newFakeTicketRepo(eventRepo *fakeEventRepo) *fakeTicketRepo {
	return &fakeTicketRepo{eventRepo: eventRepo}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNextCreateWith; err != nil {
		f.failNextCreateWith = nil
		return err
	}
	for _, existing := range f.tickets {
		if existing.EventID == ticket.EventID && existing.UserID == ticket.UserID &&
			existing.Status == domain.TicketStatusActive {
			return repository.ErrAlreadyRegistered
		}
	}
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.CreatedAt = time.Now()
	copied := *ticket
	f.tickets = append(f.tickets, &copied)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ticket := range f.tickets {
		if ticket.ID == id {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) AttachArtifact(_ context.Context, id, artifact string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ticket := range f.tickets {
		if ticket.ID == id {
			value := artifact
			ticket.QRCode = &value
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTicketRepo) CancelActive(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ticket := range f.tickets {
		if ticket.ID == id {
			if ticket.Status != domain.TicketStatusActive {
				return false, nil
			}
			ticket.Status = domain.TicketStatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTicketRepo) FindActive(_ context.Context, eventID, userID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ticket := range f.tickets {
		if ticket.EventID == eventID && ticket.UserID == userID &&
			ticket.Status == domain.TicketStatusActive {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTicketRepo) ListActiveByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Ticket
	for i := len(f.tickets) - 1; i >= 0; i-- {
		ticket := f.tickets[i]
		if ticket.UserID != userID || ticket.Status != domain.TicketStatusActive {
			continue
		}
		copied := *ticket
		if event, err := f.eventRepo.GetByID(ctx, ticket.EventID); err == nil {
			copied.Event = event
		}
		result = append(result, copied)
	}
	return result, nil
}

func (f *fakeTicketRepo) ListByEvent(_ context.Context, eventID string, includeCancelled bool) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Ticket
	for i := len(f.tickets) - 1; i >= 0; i-- {
		ticket := f.tickets[i]
		if ticket.EventID != eventID {
			continue
		}
		if !includeCancelled && ticket.Status != domain.TicketStatusActive {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (f *fakeTicketRepo) CountActive(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, ticket := range f.tickets {
		if ticket.Status == domain.TicketStatusActive {
			count++
		}
	}
	return count, nil
}
