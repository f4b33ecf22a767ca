package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrMenuItemNotFound      = fmt.Errorf("menu item %w", ErrNotFound)
	ErrNoMenuForDate         = errors.New("no menu for date")
	ErrItemNotOnMenu         = errors.New("item not available for this meal")
	ErrFoodTokenNotFound     = fmt.Errorf("food token %w", ErrNotFound)
	ErrTokenNotValidToday    = errors.New("food token is not valid today")
	ErrTokenAlreadyValidated = errors.New("food token already validated")
)

// DateLayout is the calendar-date format used by menus and food tokens.
const DateLayout = "2006-01-02"

// Menu item categories.
const (
	CategoryBreakfast = "Breakfast"
	CategoryLunch     = "Lunch"
	CategoryDinner    = "Dinner"
	CategorySnacks    = "Snacks"
	CategoryBeverage  = "Beverage"
)

// MealType is a meal a food token can be redeemed for.
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
)

// Valid reports whether m is a known meal.
func (m MealType) Valid() bool {
	return m == MealBreakfast || m == MealLunch || m == MealDinner
}

// ValidCategory reports whether c is a known menu category.
func ValidCategory(c string) bool {
	return slices.Contains([]string{CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnacks, CategoryBeverage}, c)
}

// MenuItem is something the canteen serves.
// swagger:model MenuItem
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsVeg       bool    `json:"is_veg"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// DailyMenu lists the item IDs served for each meal on one date.
// swagger:model DailyMenu
type DailyMenu struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	BreakfastItems []string `json:"breakfast_items"`
	LunchItems     []string `json:"lunch_items"`
	DinnerItems    []string `json:"dinner_items"`
}

// ItemsFor returns the item IDs served for meal.
func (m *DailyMenu) ItemsFor(meal MealType) []string {
	switch meal {
	case MealBreakfast:
		return m.BreakfastItems
	case MealLunch:
		return m.LunchItems
	case MealDinner:
		return m.DinnerItems
	}
	return nil
}

// FoodToken entitles a user to one item for one meal on one date.
// swagger:model FoodToken
type FoodToken struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	MenuItemID  string     `json:"menu_item_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	ValidOn     string     `json:"valid_on"`
	MealType    MealType   `json:"meal_type"`
	Validated   bool       `json:"validated"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
}

// CanteenRepository stores menu items, daily menus and food tokens.
type CanteenRepository interface {
	ListItems(ctx context.Context) ([]*MenuItem, error)
	GetItem(ctx context.Context, id string) (*MenuItem, error)
	CreateItem(ctx context.Context, item *MenuItem) error
	GetMenu(ctx context.Context, date string) (*DailyMenu, error)
	// UpsertMenu replaces the menu for menu.Date, keeping its ID when one exists.
	UpsertMenu(ctx context.Context, menu *DailyMenu) error
	CreateToken(ctx context.Context, token *FoodToken) error
	GetToken(ctx context.Context, id string) (*FoodToken, error)
	// MarkTokenValidated flips Validated once; a second call returns ErrTokenAlreadyValidated.
	MarkTokenValidated(ctx context.Context, id string, at time.Time) (*FoodToken, error)
	ListTokensByUser(ctx context.Context, userID, date string) ([]*FoodToken, error)
}

// CanteenService manages menus and food tokens.
type CanteenService interface {
	ListItems(ctx context.Context) ([]*MenuItem, error)
	AddItem(ctx context.Context, item *MenuItem) error
	GetMenu(ctx context.Context, date string) (*DailyMenu, error)
	SetMenu(ctx context.Context, menu *DailyMenu) (*DailyMenu, error)
	GenerateToken(ctx context.Context, userID, menuItemID string, meal MealType, date string) (*FoodToken, error)
	ValidateToken(ctx context.Context, tokenID string) (*FoodToken, error)
	ListUserTokens(ctx context.Context, userID, date string) ([]*FoodToken, error)
}
