package domain

import (
	"context"
	"time"
)

// Event represents a campus event with a fixed number of seats.
// swagger:model Event
type Event struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Speaker            string    `json:"speaker"`
	Room               string    `json:"room"`
	Date               time.Time `json:"date"`
	TotalSeats         int       `json:"total_seats"`
	RegisteredSeats    int       `json:"registered_seats"`
	Cost               float64   `json:"cost"`
	Sponsor            *string   `json:"sponsor,omitempty"`
	EstimatedCost      *float64  `json:"estimated_cost,omitempty"`
	SponsorshipAmount  *float64  `json:"sponsorship_amount,omitempty"`
	AssignedVolunteers []string  `json:"assigned_volunteers"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with no seats taken. ID is set by the repository on create.
func NewEvent(name, description, speaker, room string, date time.Time, totalSeats int, cost float64, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:               name,
		Description:        description,
		Speaker:            speaker,
		Room:               room,
		Date:               date,
		TotalSeats:         totalSeats,
		Cost:               cost,
		AssignedVolunteers: []string{},
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}

// AvailableSeats returns the number of seats still open.
func (e *Event) AvailableSeats() int {
	if e.RegisteredSeats >= e.TotalSeats {
		return 0
	}
	return e.TotalSeats - e.RegisteredSeats
}

// IsFull reports whether every seat is taken.
func (e *Event) IsFull() bool {
	return e.RegisteredSeats >= e.TotalSeats
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	if e.Sponsor != nil {
		s := *e.Sponsor
		c.Sponsor = &s
	}
	if e.EstimatedCost != nil {
		v := *e.EstimatedCost
		c.EstimatedCost = &v
	}
	if e.SponsorshipAmount != nil {
		v := *e.SponsorshipAmount
		c.SponsorshipAmount = &v
	}
	c.AssignedVolunteers = append([]string{}, e.AssignedVolunteers...)
	return &c
}

// EventFinancials holds the optional amounts an admin may change on an event.
// Nil fields are left untouched.
type EventFinancials struct {
	EstimatedCost     *float64
	SponsorshipAmount *float64
}

// EventRepository defines the interface for event storage. It is the only owner of
// RegisteredSeats: IncrementSeats is the single choke point through which seats are taken.
type EventRepository interface {
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	// IncrementSeats takes one seat iff RegisteredSeats < TotalSeats. Returns ErrCapacityRaceLost when full
	// and ErrEventNotFound when the event does not exist.
	IncrementSeats(ctx context.Context, id string) (*Event, error)
	// ReleaseSeat gives back a seat taken by IncrementSeats when the registration could not be stored.
	ReleaseSeat(ctx context.Context, id string) error
	UpdateFinancials(ctx context.Context, id string, f EventFinancials) (*Event, error)
	AssignVolunteer(ctx context.Context, id, volunteerID string) error
	RemoveVolunteer(ctx context.Context, id, volunteerID string) error
}

// EventService defines admin and public operations on events.
type EventService interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	UpdateFinancials(ctx context.Context, id string, f EventFinancials) (*Event, error)
}
