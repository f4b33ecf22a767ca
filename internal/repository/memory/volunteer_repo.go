package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"eduevent/internal/domain"
)

type volunteerRepository struct {
	mu         sync.RWMutex
	volunteers map[string]*domain.Volunteer
}

func NewVolunteerRepository() domain.VolunteerRepository {
	return &volunteerRepository{volunteers: make(map[string]*domain.Volunteer)}
}

func (r *volunteerRepository) List(ctx context.Context) ([]*domain.Volunteer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Volunteer, 0, len(r.volunteers))
	for _, v := range r.volunteers {
		out = append(out, v.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *volunteerRepository) GetByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.volunteers[id]
	if !ok {
		return nil, domain.ErrVolunteerNotFound
	}
	return v.Clone(), nil
}

func (r *volunteerRepository) Create(ctx context.Context, v *domain.Volunteer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	r.volunteers[v.ID] = v.Clone()
	return nil
}

func (r *volunteerRepository) Update(ctx context.Context, v *domain.Volunteer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.volunteers[v.ID]; !ok {
		return domain.ErrVolunteerNotFound
	}
	r.volunteers[v.ID] = v.Clone()
	return nil
}
