package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rizwanhussain01/EventHub/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	AttachArtifact(ctx context.Context, id, artifact string) error
	// CancelActive flips an ACTIVE ticket to CANCELLED and reports whether
	// the row changed. A false result means the ticket was already
	// cancelled.
	CancelActive(ctx context.Context, id string) (bool, error)
	// FindActive returns the active ticket for the event/user pair, or nil
	// when there is none.
	FindActive(ctx context.Context, eventID, userID string) (*domain.Ticket, error)
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	ListByEvent(ctx context.Context, eventID string, includeCancelled bool) ([]domain.Ticket, error)
	CountActive(ctx context.Context) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, code, event_id, user_id, full_name, email, phone,
               age, gender, organization, special_requirements, qr_code, status,
               created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (code, event_id, user_id, full_name, email, phone,
                             age, gender, organization, special_requirements, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Code,
		ticket.EventID,
		ticket.UserID,
		ticket.Details.FullName,
		ticket.Details.Email,
		ticket.Details.Phone,
		ticket.Details.Age,
		ticket.Details.Gender,
		ticket.Details.Organization,
		ticket.Details.SpecialRequirements,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil && isUniqueViolation(err) {
		return ErrAlreadyRegistered
	}
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketDest(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) AttachArtifact(ctx context.Context, id, artifact string) error {
	const query = `UPDATE tickets SET qr_code=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, artifact, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CancelActive(ctx context.Context, id string) (bool, error) {
	const query = `
        UPDATE tickets SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, domain.TicketStatusCancelled, id, domain.TicketStatusActive)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) FindActive(ctx context.Context, eventID, userID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
        WHERE event_id=$1 AND user_id=$2 AND status=$3`
	var ticket domain.Ticket
	err := r.pool.QueryRow(ctx, query, eventID, userID, domain.TicketStatusActive).Scan(ticketDest(&ticket)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	const query = `
        SELECT t.id, t.code, t.event_id, t.user_id, t.full_name, t.email, t.phone,
               t.age, t.gender, t.organization, t.special_requirements, t.qr_code, t.status,
               t.created_at, t.updated_at,
               e.id, e.organizer_id, e.title, e.description, e.category, e.venue, e.city,
               e.event_date, e.capacity, e.registered_count, e.views, e.is_published,
               e.created_at, e.updated_at
        FROM tickets t
        JOIN events e ON e.id = t.event_id
        WHERE t.user_id=$1 AND t.status=$2
        ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, domain.TicketStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		var event domain.Event
		dest := append(ticketDest(&ticket),
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
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		ticket.Event = &event
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) ListByEvent(ctx context.Context, eventID string, includeCancelled bool) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id=$1`
	args := []any{eventID}
	if !includeCancelled {
		args = append(args, domain.TicketStatusActive)
		query += ` AND status=$2`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketDest(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE status=$1`,
		domain.TicketStatusActive).Scan(&count)
	return count, err
}

func ticketDest(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.Code,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.Details.FullName,
		&ticket.Details.Email,
		&ticket.Details.Phone,
		&ticket.Details.Age,
		&ticket.Details.Gender,
		&ticket.Details.Organization,
		&ticket.Details.SpecialRequirements,
		&ticket.QRCode,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
