package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rizwanhussain01/EventHub/internal/domain"
)

// EventFilter captures event search parameters.
type EventFilter struct {
	OrganizerID   *string
	Category      *string
	City          *string
	SearchTerm    *string
	PublishedOnly bool
	StartsAfter   *time.Time
	Limit         int
	Offset        int
}

// EventStats aggregates platform-wide event numbers for the admin view.
type EventStats struct {
	TotalEvents     int64
	PublishedEvents int64
	TotalViews      int64
}

// EventRepository encapsulates event persistence, including the capacity
// ledger operations used by the registration workflows.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	IncrementViews(ctx context.Context, id string) error
	ReserveSeat(ctx context.Context, id string) error
	ReleaseSeat(ctx context.Context, id string) error
	Stats(ctx context.Context) (EventStats, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates the repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, organizer_id, title, description, category, venue, city,
               event_date, capacity, registered_count, views, is_published,
               created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (organizer_id, title, description, category, venue, city,
                            event_date, capacity, is_published)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, registered_count, views, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.OrganizerID,
		event.Title,
		event.Description,
		event.Category,
		event.Venue,
		event.City,
		event.Date,
		event.Capacity,
		event.IsPublished,
	).Scan(&event.ID, &event.RegisteredCount, &event.Views, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET title=$1, description=$2, category=$3, venue=$4, city=$5,
            event_date=$6, capacity=$7, is_published=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		event.Title,
		event.Description,
		event.Category,
		event.Venue,
		event.City,
		event.Date,
		event.Capacity,
		event.IsPublished,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	var event domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.Venue,
		&event.City,
		&event.Date,
		&event.Capacity,
		&event.RegisteredCount,
		&event.Views,
		&event.IsPublished,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	base := `SELECT ` + eventColumns + ` FROM events`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OrganizerID != nil {
		args = append(args, *filter.OrganizerID)
		clauses = append(clauses, fmt.Sprintf("organizer_id=$%d", len(args)))
	}
	if filter.Category != nil && *filter.Category != "" {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.City != nil && strings.TrimSpace(*filter.City) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.City))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(city) LIKE $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}
	if filter.PublishedOnly {
		clauses = append(clauses, "is_published")
	}
	if filter.StartsAfter != nil {
		args = append(args, *filter.StartsAfter)
		clauses = append(clauses, fmt.Sprintf("event_date >= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY event_date ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE events SET views = views + 1 WHERE id=$1`, id)
	return err
}

// ReserveSeat claims one seat as a single conditional update. The capacity
// check and the increment happen in the same statement, so two concurrent
// registrations can never push registered_count past capacity.
func (r *eventRepository) ReserveSeat(ctx context.Context, id string) error {
	const query = `
        UPDATE events SET registered_count = registered_count + 1, updated_at=NOW()
        WHERE id=$1 AND registered_count < capacity`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEventFull
	}
	return nil
}

// ReleaseSeat returns one seat to the pool, floored at zero.
func (r *eventRepository) ReleaseSeat(ctx context.Context, id string) error {
	const query = `
        UPDATE events SET registered_count = GREATEST(registered_count - 1, 0), updated_at=NOW()
        WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *eventRepository) Stats(ctx context.Context) (EventStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE is_published),
               COALESCE(SUM(views), 0)
        FROM events`
	var stats EventStats
	err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalEvents, &stats.PublishedEvents, &stats.TotalViews)
	return stats, err
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.OrganizerID,
			&event.Title,
			&event.Description,
			&event.Category,
			&event.Venue,
			&event.City,
			&event.Date,
			&event.Capacity,
			&event.RegisteredCount,
			&event.Views,
			&event.IsPublished,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
