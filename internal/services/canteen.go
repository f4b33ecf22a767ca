package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"eduevent/internal/domain"
)

type canteenService struct {
	canteenRepo domain.CanteenRepository
	now         func() time.Time
}

func NewCanteenService(canteenRepo domain.CanteenRepository) domain.CanteenService {
	return &canteenService{canteenRepo: canteenRepo, now: time.Now}
}

func (s *canteenService) today() string {
	return s.now().Format(domain.DateLayout)
}

func (s *canteenService) ListItems(ctx context.Context) ([]*domain.MenuItem, error) {
	items, err := s.canteenRepo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

func (s *canteenService) AddItem(ctx context.Context, item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return domain.InvalidInputError("name is required")
	}
	if !domain.ValidCategory(item.Category) {
		return domain.InvalidInputError("unknown category %q", item.Category)
	}
	if item.Price < 0 {
		return domain.InvalidInputError("price must not be negative")
	}
	if err := s.canteenRepo.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

func (s *canteenService) GetMenu(ctx context.Context, date string) (*domain.DailyMenu, error) {
	date, err := normalizeDate(date, s.today())
	if err != nil {
		return nil, err
	}
	menu, err := s.canteenRepo.GetMenu(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrNoMenuForDate) {
			return nil, domain.ErrNoMenuForDate
		}
		return nil, fmt.Errorf("get menu: %w", err)
	}
	return menu, nil
}

// SetMenu replaces the menu for menu.Date. Every referenced item must exist.
func (s *canteenService) SetMenu(ctx context.Context, menu *domain.DailyMenu) (*domain.DailyMenu, error) {
	date, err := normalizeDate(menu.Date, "")
	if err != nil {
		return nil, err
	}
	menu.Date = date
	for _, ids := range [][]string{menu.BreakfastItems, menu.LunchItems, menu.DinnerItems} {
		for _, id := range ids {
			if _, err := s.canteenRepo.GetItem(ctx, id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, domain.InvalidInputError("unknown menu item %q", id)
				}
				return nil, fmt.Errorf("get menu item: %w", err)
			}
		}
	}
	if menu.BreakfastItems == nil {
		menu.BreakfastItems = []string{}
	}
	if menu.LunchItems == nil {
		menu.LunchItems = []string{}
	}
	if menu.DinnerItems == nil {
		menu.DinnerItems = []string{}
	}
	if err := s.canteenRepo.UpsertMenu(ctx, menu); err != nil {
		return nil, fmt.Errorf("upsert menu: %w", err)
	}
	return menu, nil
}

// GenerateToken issues a food token for an item on the menu of date (today when empty).
func (s *canteenService) GenerateToken(ctx context.Context, userID, menuItemID string, meal domain.MealType, date string) (*domain.FoodToken, error) {
	if userID == "" {
		return nil, domain.InvalidInputError("user id is required")
	}
	if !meal.Valid() {
		return nil, domain.InvalidInputError("unknown meal type %q", meal)
	}
	date, err := normalizeDate(date, s.today())
	if err != nil {
		return nil, err
	}

	menu, err := s.canteenRepo.GetMenu(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrNoMenuForDate) {
			return nil, domain.ErrNoMenuForDate
		}
		return nil, fmt.Errorf("get menu: %w", err)
	}
	if !slices.Contains(menu.ItemsFor(meal), menuItemID) {
		return nil, domain.ErrItemNotOnMenu
	}
	if _, err := s.canteenRepo.GetItem(ctx, menuItemID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	token := &domain.FoodToken{
		UserID:      userID,
		MenuItemID:  menuItemID,
		GeneratedAt: s.now(),
		ValidOn:     date,
		MealType:    meal,
	}
	if err := s.canteenRepo.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("create food token: %w", err)
	}
	return token, nil
}

// ValidateToken redeems a food token. Tokens are valid once, on their date only.
func (s *canteenService) ValidateToken(ctx context.Context, tokenID string) (*domain.FoodToken, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, domain.InvalidInputError("token id is required")
	}
	token, err := s.canteenRepo.GetToken(ctx, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrFoodTokenNotFound
		}
		return nil, fmt.Errorf("get food token: %w", err)
	}
	if token.ValidOn != s.today() {
		return nil, domain.ErrTokenNotValidToday
	}
	if token.Validated {
		return nil, domain.ErrTokenAlreadyValidated
	}
	validated, err := s.canteenRepo.MarkTokenValidated(ctx, tokenID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrTokenAlreadyValidated) {
			return nil, domain.ErrTokenAlreadyValidated
		}
		return nil, fmt.Errorf("validate food token: %w", err)
	}
	return validated, nil
}

func (s *canteenService) ListUserTokens(ctx context.Context, userID, date string) ([]*domain.FoodToken, error) {
	if date != "" {
		d, err := normalizeDate(date, "")
		if err != nil {
			return nil, err
		}
		date = d
	}
	tokens, err := s.canteenRepo.ListTokensByUser(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list food tokens: %w", err)
	}
	return tokens, nil
}

// normalizeDate checks date against domain.DateLayout, falling back to def when date is empty.
func normalizeDate(date, def string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = def
	}
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", domain.InvalidInputError("date must be formatted as %s", domain.DateLayout)
	}
	return t.Format(domain.DateLayout), nil
}
