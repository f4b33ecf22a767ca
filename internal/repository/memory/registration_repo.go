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

type registrationRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Registration
	byPair  map[string]string // eventID:userID -> registration ID
	byToken map[string]string
}

func NewRegistrationRepository() domain.RegistrationRepository {
	return &registrationRepository{
		byID:    make(map[string]*domain.Registration),
		byPair:  make(map[string]string),
		byToken: make(map[string]string),
	}
}

func pairKey(eventID, userID string) string {
	return eventID + ":" + userID
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(reg.EventID, reg.UserID)
	if _, ok := r.byPair[key]; ok {
		return domain.ErrDuplicateRegistration
	}
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	r.byID[reg.ID] = reg.Clone()
	r.byPair[key] = reg.ID
	r.byToken[reg.Token] = reg.ID
	return nil
}

func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPair[pairKey(eventID, userID)]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *registrationRepository) GetByToken(ctx context.Context, token string) (*domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	r.mu.RLock()
	var all []*domain.Registration
	for _, reg := range r.byID {
		if reg.EventID == eventID {
			all = append(all, reg.Clone())
		}
	}
	r.mu.RUnlock()
	sortByCreated(all)

	total := len(all)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := total
	if p.PageSize > 0 && start+p.PageSize < total {
		end = start + p.PageSize
	}
	page := all[start:end]
	if page == nil {
		page = []*domain.Registration{}
	}
	return page, total, nil
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	regs := []*domain.Registration{}
	for _, reg := range r.byID {
		if reg.UserID == userID {
			regs = append(regs, reg.Clone())
		}
	}
	sortByCreated(regs)
	slices.Reverse(regs)
	return regs, nil
}

func (r *registrationRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	if reg.CheckedInAt != nil {
		return nil, domain.ErrAlreadyCheckedIn
	}
	t := at
	reg.CheckedInAt = &t
	return reg.Clone(), nil
}

func sortByCreated(regs []*domain.Registration) {
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].CreatedAt.Equal(regs[j].CreatedAt) {
			return regs[i].ID < regs[j].ID
		}
		return regs[i].CreatedAt.Before(regs[j].CreatedAt)
	})
}
