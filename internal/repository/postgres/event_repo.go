package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eduevent/internal/domain"
)

const eventColumns = `id, name, description, speaker, room, date, total_seats, registered_seats, cost,
		sponsor, estimated_cost, sponsorship_amount, assigned_volunteers, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var sponsorNull sql.NullString
	var costNull, sponsorshipNull sql.NullFloat64
	var volunteers pq.StringArray
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Speaker, &e.Room, &e.Date, &e.TotalSeats, &e.RegisteredSeats, &e.Cost,
		&sponsorNull, &costNull, &sponsorshipNull, &volunteers, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sponsorNull.Valid {
		e.Sponsor = &sponsorNull.String
	}
	if costNull.Valid {
		e.EstimatedCost = &costNull.Float64
	}
	if sponsorshipNull.Valid {
		e.SponsorshipAmount = &sponsorshipNull.Float64
	}
	e.AssignedVolunteers = []string(volunteers)
	if e.AssignedVolunteers == nil {
		e.AssignedVolunteers = []string{}
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, speaker, room, date, total_seats, registered_seats, cost,
			sponsor, estimated_cost, sponsorship_amount, assigned_volunteers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	e.RegisteredSeats = 0
	if e.AssignedVolunteers == nil {
		e.AssignedVolunteers = []string{}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Speaker, e.Room, e.Date, e.TotalSeats, e.Cost,
		e.Sponsor, e.EstimatedCost, e.SponsorshipAmount, pq.Array(e.AssignedVolunteers), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

// IncrementSeats takes a seat with one conditional UPDATE so concurrent callers are serialized
// on the row lock and the capacity check cannot be raced.
func (r *eventRepository) IncrementSeats(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		UPDATE events SET registered_seats = registered_seats + 1, updated_at = NOW()
		WHERE id = $1 AND registered_seats < total_seats
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err == nil {
		return e, nil
	}
	if isInvalidID(err) {
		return nil, domain.ErrEventNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	exists, err := r.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrEventNotFound
	}
	return nil, domain.ErrCapacityRaceLost
}

func (r *eventRepository) ReleaseSeat(ctx context.Context, id string) error {
	query := `
		UPDATE events SET registered_seats = registered_seats - 1, updated_at = NOW()
		WHERE id = $1 AND registered_seats > 0
	`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrEventNotFound
		}
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrEventNotFound
		}
	}
	return nil
}

func (r *eventRepository) UpdateFinancials(ctx context.Context, id string, f domain.EventFinancials) (*domain.Event, error) {
	query := `
		UPDATE events SET
			estimated_cost = COALESCE($2, estimated_cost),
			sponsorship_amount = COALESCE($3, sponsorship_amount),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, f.EstimatedCost, f.SponsorshipAmount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) AssignVolunteer(ctx context.Context, id, volunteerID string) error {
	query := `
		UPDATE events SET assigned_volunteers = array_append(assigned_volunteers, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(assigned_volunteers))
	`
	return r.execOnEvent(ctx, query, id, volunteerID)
}

func (r *eventRepository) RemoveVolunteer(ctx context.Context, id, volunteerID string) error {
	query := `
		UPDATE events SET assigned_volunteers = array_remove(assigned_volunteers, $2), updated_at = NOW()
		WHERE id = $1
	`
	return r.execOnEvent(ctx, query, id, volunteerID)
}

// execOnEvent runs an UPDATE and turns zero affected rows into ErrEventNotFound when the event is missing.
func (r *eventRepository) execOnEvent(ctx context.Context, query, id string, args ...any) error {
	result, err := r.DB.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrEventNotFound
		}
		return err
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if isInvalidID(err) {
		return false, nil
	}
	return exists, err
}
