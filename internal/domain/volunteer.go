package domain

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"
)

var (
	ErrVolunteerNotFound    = fmt.Errorf("volunteer %w", ErrNotFound)
	ErrVolunteerNotAssigned = errors.New("volunteer not assigned to this event")
)

// Volunteer is a helper who can be assigned to events, have attendance tracked and be given tasks.
// swagger:model Volunteer
type Volunteer struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	AssignedEventIDs []string          `json:"assigned_event_ids"`
	Attendance       map[string]bool   `json:"attendance"`
	Tasks            map[string]string `json:"tasks"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Clone returns a deep copy of the volunteer.
func (v *Volunteer) Clone() *Volunteer {
	if v == nil {
		return nil
	}
	c := *v
	c.AssignedEventIDs = append([]string{}, v.AssignedEventIDs...)
	c.Attendance = maps.Clone(v.Attendance)
	if c.Attendance == nil {
		c.Attendance = map[string]bool{}
	}
	c.Tasks = maps.Clone(v.Tasks)
	if c.Tasks == nil {
		c.Tasks = map[string]string{}
	}
	return &c
}

// VolunteerRepository stores volunteers. Update replaces the stored record.
type VolunteerRepository interface {
	List(ctx context.Context) ([]*Volunteer, error)
	GetByID(ctx context.Context, id string) (*Volunteer, error)
	Create(ctx context.Context, v *Volunteer) error
	Update(ctx context.Context, v *Volunteer) error
}

// VolunteerService manages volunteers and their event assignments.
type VolunteerService interface {
	ListVolunteers(ctx context.Context) ([]*Volunteer, error)
	GetVolunteer(ctx context.Context, id string) (*Volunteer, error)
	CreateVolunteer(ctx context.Context, name, email string) (*Volunteer, error)
	SetAssignment(ctx context.Context, volunteerID, eventID string, assigned bool) (*Volunteer, error)
	TrackAttendance(ctx context.Context, volunteerID, eventID string, attended bool) (*Volunteer, error)
	AssignTask(ctx context.Context, volunteerID, eventID, task string) (*Volunteer, error)
}
