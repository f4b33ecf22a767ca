// Package memory provides process-local implementations of the domain repositories.
// Every read returns a copy; every seat mutation happens under the store lock.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eduevent/internal/domain"
)

type eventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
	now    func() time.Time
}

func NewEventRepository() domain.EventRepository {
	return &eventRepository{
		events: make(map[string]*domain.Event),
		now:    time.Now,
	}
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e.Clone())
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].ID < events[j].ID
		}
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e.Clone(), nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.RegisteredSeats = 0
	if e.AssignedVolunteers == nil {
		e.AssignedVolunteers = []string{}
	}
	r.events[e.ID] = e.Clone()
	return nil
}

func (r *eventRepository) IncrementSeats(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if e.RegisteredSeats >= e.TotalSeats {
		return nil, domain.ErrCapacityRaceLost
	}
	e.RegisteredSeats++
	e.UpdatedAt = r.now()
	return e.Clone(), nil
}

func (r *eventRepository) ReleaseSeat(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if e.RegisteredSeats > 0 {
		e.RegisteredSeats--
		e.UpdatedAt = r.now()
	}
	return nil
}

func (r *eventRepository) UpdateFinancials(ctx context.Context, id string, f domain.EventFinancials) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if f.EstimatedCost != nil {
		v := *f.EstimatedCost
		e.EstimatedCost = &v
	}
	if f.SponsorshipAmount != nil {
		v := *f.SponsorshipAmount
		e.SponsorshipAmount = &v
	}
	e.UpdatedAt = r.now()
	return e.Clone(), nil
}

func (r *eventRepository) AssignVolunteer(ctx context.Context, id, volunteerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if !slices.Contains(e.AssignedVolunteers, volunteerID) {
		e.AssignedVolunteers = append(e.AssignedVolunteers, volunteerID)
	}
	return nil
}

func (r *eventRepository) RemoveVolunteer(ctx context.Context, id, volunteerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.AssignedVolunteers = slices.DeleteFunc(e.AssignedVolunteers, func(v string) bool { return v == volunteerID })
	return nil
}
