package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"eduevent/internal/domain"
)

const volunteerColumns = `id, name, email, assigned_event_ids, attendance, tasks, created_at`

type volunteerRepository struct {
	DB *sql.DB
}

func NewVolunteerRepository(db *sql.DB) domain.VolunteerRepository {
	return &volunteerRepository{
		DB: db,
	}
}

func scanVolunteer(row rowScanner) (*domain.Volunteer, error) {
	v := &domain.Volunteer{}
	var events pq.StringArray
	var attendance, tasks []byte
	if err := row.Scan(&v.ID, &v.Name, &v.Email, &events, &attendance, &tasks, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.AssignedEventIDs = []string(events)
	if v.AssignedEventIDs == nil {
		v.AssignedEventIDs = []string{}
	}
	v.Attendance = map[string]bool{}
	if len(attendance) > 0 {
		if err := json.Unmarshal(attendance, &v.Attendance); err != nil {
			return nil, err
		}
	}
	v.Tasks = map[string]string{}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &v.Tasks); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// volunteerMaps encodes the attendance and task maps as JSONB parameters.
func volunteerMaps(v *domain.Volunteer) (attendance, tasks []byte, err error) {
	att := v.Attendance
	if att == nil {
		att = map[string]bool{}
	}
	tk := v.Tasks
	if tk == nil {
		tk = map[string]string{}
	}
	if attendance, err = json.Marshal(att); err != nil {
		return nil, nil, err
	}
	if tasks, err = json.Marshal(tk); err != nil {
		return nil, nil, err
	}
	return attendance, tasks, nil
}

func (r *volunteerRepository) List(ctx context.Context) ([]*domain.Volunteer, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+volunteerColumns+` FROM volunteers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	vols := make([]*domain.Volunteer, 0)
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		vols = append(vols, v)
	}
	return vols, rows.Err()
}

func (r *volunteerRepository) GetByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	v, err := scanVolunteer(r.DB.QueryRowContext(ctx, `SELECT `+volunteerColumns+` FROM volunteers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrVolunteerNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *volunteerRepository) Create(ctx context.Context, v *domain.Volunteer) error {
	attendance, tasks, err := volunteerMaps(v)
	if err != nil {
		return err
	}
	if v.AssignedEventIDs == nil {
		v.AssignedEventIDs = []string{}
	}
	query := `
		INSERT INTO volunteers (name, email, assigned_event_ids, attendance, tasks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		v.Name, v.Email, pq.Array(v.AssignedEventIDs), attendance, tasks, v.CreatedAt,
	).Scan(&v.ID)
}

func (r *volunteerRepository) Update(ctx context.Context, v *domain.Volunteer) error {
	attendance, tasks, err := volunteerMaps(v)
	if err != nil {
		return err
	}
	query := `
		UPDATE volunteers SET name = $2, email = $3, assigned_event_ids = $4, attendance = $5, tasks = $6
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, v.ID, v.Name, v.Email, pq.Array(v.AssignedEventIDs), attendance, tasks)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrVolunteerNotFound
		}
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrVolunteerNotFound
	}
	return nil
}
