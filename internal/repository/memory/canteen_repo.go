package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eduevent/internal/domain"
)

type canteenRepository struct {
	mu     sync.RWMutex
	items  map[string]*domain.MenuItem
	menus  map[string]*domain.DailyMenu // keyed by date
	tokens map[string]*domain.FoodToken
}

func NewCanteenRepository() domain.CanteenRepository {
	return &canteenRepository{
		items:  make(map[string]*domain.MenuItem),
		menus:  make(map[string]*domain.DailyMenu),
		tokens: make(map[string]*domain.FoodToken),
	}
}

func cloneMenu(m *domain.DailyMenu) *domain.DailyMenu {
	c := *m
	c.BreakfastItems = append([]string{}, m.BreakfastItems...)
	c.LunchItems = append([]string{}, m.LunchItems...)
	c.DinnerItems = append([]string{}, m.DinnerItems...)
	return &c
}

func cloneToken(t *domain.FoodToken) *domain.FoodToken {
	c := *t
	if t.ValidatedAt != nil {
		v := *t.ValidatedAt
		c.ValidatedAt = &v
	}
	return &c
}

func (r *canteenRepository) ListItems(ctx context.Context) ([]*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.MenuItem, 0, len(r.items))
	for _, it := range r.items {
		c := *it
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *canteenRepository) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	c := *it
	return &c, nil
}

func (r *canteenRepository) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	c := *item
	r.items[item.ID] = &c
	return nil
}

func (r *canteenRepository) GetMenu(ctx context.Context, date string) (*domain.DailyMenu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.menus[date]
	if !ok {
		return nil, domain.ErrNoMenuForDate
	}
	return cloneMenu(m), nil
}

func (r *canteenRepository) UpsertMenu(ctx context.Context, menu *domain.DailyMenu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.menus[menu.Date]; ok {
		menu.ID = existing.ID
	} else if menu.ID == "" {
		menu.ID = uuid.NewString()
	}
	r.menus[menu.Date] = cloneMenu(menu)
	return nil
}

func (r *canteenRepository) CreateToken(ctx context.Context, token *domain.FoodToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	r.tokens[token.ID] = cloneToken(token)
	return nil
}

func (r *canteenRepository) GetToken(ctx context.Context, id string) (*domain.FoodToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, domain.ErrFoodTokenNotFound
	}
	return cloneToken(t), nil
}

func (r *canteenRepository) MarkTokenValidated(ctx context.Context, id string, at time.Time) (*domain.FoodToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, domain.ErrFoodTokenNotFound
	}
	if t.Validated {
		return nil, domain.ErrTokenAlreadyValidated
	}
	v := at
	t.Validated = true
	t.ValidatedAt = &v
	return cloneToken(t), nil
}

func (r *canteenRepository) ListTokensByUser(ctx context.Context, userID, date string) ([]*domain.FoodToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.FoodToken{}
	for _, t := range r.tokens {
		if t.UserID != userID {
			continue
		}
		if date != "" && t.ValidOn != date {
			continue
		}
		out = append(out, cloneToken(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.Before(out[j].GeneratedAt) })
	return out, nil
}
