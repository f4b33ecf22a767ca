package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eduevent/internal/domain"
)

const (
	roomRequestColumns = `id, user_id, request_type, current_room_id, preferred_room_id, description, status,
		submitted_at, resolved_at, admin_notes`
	complaintColumns = `id, user_id, room_id, category, description, status, submitted_at, resolved_at, admin_notes`
)

type hostelRepository struct {
	DB *sql.DB
}

func NewHostelRepository(db *sql.DB) domain.HostelRepository {
	return &hostelRepository{
		DB: db,
	}
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullableTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

func scanRoomRequest(row rowScanner) (*domain.RoomRequest, error) {
	req := &domain.RoomRequest{}
	var current, preferred, notes sql.NullString
	var resolved sql.NullTime
	err := row.Scan(&req.ID, &req.UserID, &req.RequestType, &current, &preferred, &req.Description, &req.Status,
		&req.SubmittedAt, &resolved, &notes)
	if err != nil {
		return nil, err
	}
	req.CurrentRoomID = nullableString(current)
	req.PreferredRoomID = nullableString(preferred)
	req.AdminNotes = nullableString(notes)
	req.ResolvedAt = nullableTime(resolved)
	return req, nil
}

func scanComplaint(row rowScanner) (*domain.Complaint, error) {
	c := &domain.Complaint{}
	var room, notes sql.NullString
	var resolved sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &room, &c.Category, &c.Description, &c.Status, &c.SubmittedAt, &resolved, &notes)
	if err != nil {
		return nil, err
	}
	c.RoomID = nullableString(room)
	c.AdminNotes = nullableString(notes)
	c.ResolvedAt = nullableTime(resolved)
	return c, nil
}

func (r *hostelRepository) ListRooms(ctx context.Context) ([]*domain.HostelRoom, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, room_number, block, capacity, occupants FROM hostel_rooms ORDER BY block, room_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]*domain.HostelRoom, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func scanRoom(row rowScanner) (*domain.HostelRoom, error) {
	room := &domain.HostelRoom{}
	var occupants pq.StringArray
	if err := row.Scan(&room.ID, &room.RoomNumber, &room.Block, &room.Capacity, &occupants); err != nil {
		return nil, err
	}
	room.Occupants = []string(occupants)
	if room.Occupants == nil {
		room.Occupants = []string{}
	}
	return room, nil
}

func (r *hostelRepository) GetRoom(ctx context.Context, id string) (*domain.HostelRoom, error) {
	room, err := scanRoom(r.DB.QueryRowContext(ctx, `SELECT id, room_number, block, capacity, occupants FROM hostel_rooms WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *hostelRepository) CreateRequest(ctx context.Context, req *domain.RoomRequest) error {
	query := `
		INSERT INTO room_requests (user_id, request_type, current_room_id, preferred_room_id, description, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		req.UserID, req.RequestType, req.CurrentRoomID, req.PreferredRoomID, req.Description, req.Status, req.SubmittedAt,
	).Scan(&req.ID)
}

func (r *hostelRepository) ListRequests(ctx context.Context, filter domain.HostelFilter) ([]*domain.RoomRequest, error) {
	query := `
		SELECT ` + roomRequestColumns + `
		FROM room_requests
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR user_id = $2)
		ORDER BY submitted_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, string(filter.Status), filter.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reqs := make([]*domain.RoomRequest, 0)
	for rows.Next() {
		req, err := scanRoomRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// resolvedAtFor returns the change time when the new status closes the workflow, nil otherwise.
func resolvedAtFor(change domain.StatusChange) *time.Time {
	if change.Status.Closed() {
		at := change.At
		return &at
	}
	return nil
}

func (r *hostelRepository) UpdateRequestStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.RoomRequest, error) {
	query := `
		UPDATE room_requests SET
			status = $2,
			admin_notes = COALESCE($3, admin_notes),
			resolved_at = COALESCE($4, resolved_at)
		WHERE id = $1
		RETURNING ` + roomRequestColumns
	req, err := scanRoomRequest(r.DB.QueryRowContext(ctx, query, id, change.Status, change.AdminNotes, resolvedAtFor(change)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *hostelRepository) CreateComplaint(ctx context.Context, c *domain.Complaint) error {
	query := `
		INSERT INTO complaints (user_id, room_id, category, description, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, c.UserID, c.RoomID, c.Category, c.Description, c.Status, c.SubmittedAt).Scan(&c.ID)
}

func (r *hostelRepository) ListComplaints(ctx context.Context, filter domain.HostelFilter) ([]*domain.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR user_id = $2)
		ORDER BY submitted_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, string(filter.Status), filter.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	complaints := make([]*domain.Complaint, 0)
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func (r *hostelRepository) UpdateComplaintStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Complaint, error) {
	query := `
		UPDATE complaints SET
			status = $2,
			admin_notes = COALESCE($3, admin_notes),
			resolved_at = COALESCE($4, resolved_at)
		WHERE id = $1
		RETURNING ` + complaintColumns
	c, err := scanComplaint(r.DB.QueryRowContext(ctx, query, id, change.Status, change.AdminNotes, resolvedAtFor(change)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, err
	}
	return c, nil
}
