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
	menuItemColumns  = `id, name, description, price, category, is_veg, image_url`
	dailyMenuColumns = `id, date, breakfast_items, lunch_items, dinner_items`
	foodTokenColumns = `id, user_id, menu_item_id, generated_at, valid_on, meal_type, validated, validated_at`
)

type canteenRepository struct {
	DB *sql.DB
}

func NewCanteenRepository(db *sql.DB) domain.CanteenRepository {
	return &canteenRepository{
		DB: db,
	}
}

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	it := &domain.MenuItem{}
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Category, &it.IsVeg, &it.ImageURL); err != nil {
		return nil, err
	}
	return it, nil
}

func scanFoodToken(row rowScanner) (*domain.FoodToken, error) {
	t := &domain.FoodToken{}
	var validatedAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.MenuItemID, &t.GeneratedAt, &t.ValidOn, &t.MealType, &t.Validated, &validatedAt)
	if err != nil {
		return nil, err
	}
	t.ValidatedAt = nullableTime(validatedAt)
	return t, nil
}

func (r *canteenRepository) ListItems(ctx context.Context) ([]*domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*domain.MenuItem, 0)
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *canteenRepository) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	it, err := scanMenuItem(r.DB.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, err
	}
	return it, nil
}

func (r *canteenRepository) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (name, description, price, category, is_veg, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		item.Name, item.Description, item.Price, item.Category, item.IsVeg, item.ImageURL,
	).Scan(&item.ID)
}

func (r *canteenRepository) GetMenu(ctx context.Context, date string) (*domain.DailyMenu, error) {
	m := &domain.DailyMenu{}
	var breakfast, lunch, dinner pq.StringArray
	err := r.DB.QueryRowContext(ctx, `SELECT `+dailyMenuColumns+` FROM daily_menus WHERE date = $1`, date).
		Scan(&m.ID, &m.Date, &breakfast, &lunch, &dinner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoMenuForDate
		}
		return nil, err
	}
	m.BreakfastItems = append([]string{}, breakfast...)
	m.LunchItems = append([]string{}, lunch...)
	m.DinnerItems = append([]string{}, dinner...)
	return m, nil
}

// UpsertMenu replaces the menu for menu.Date, keeping the existing row id.
func (r *canteenRepository) UpsertMenu(ctx context.Context, menu *domain.DailyMenu) error {
	query := `
		INSERT INTO daily_menus (date, breakfast_items, lunch_items, dinner_items)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE SET
			breakfast_items = EXCLUDED.breakfast_items,
			lunch_items = EXCLUDED.lunch_items,
			dinner_items = EXCLUDED.dinner_items
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		menu.Date, pq.Array(orEmpty(menu.BreakfastItems)), pq.Array(orEmpty(menu.LunchItems)), pq.Array(orEmpty(menu.DinnerItems)),
	).Scan(&menu.ID)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *canteenRepository) CreateToken(ctx context.Context, token *domain.FoodToken) error {
	query := `
		INSERT INTO food_tokens (user_id, menu_item_id, generated_at, valid_on, meal_type, validated)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		token.UserID, token.MenuItemID, token.GeneratedAt, token.ValidOn, token.MealType,
	).Scan(&token.ID)
}

func (r *canteenRepository) GetToken(ctx context.Context, id string) (*domain.FoodToken, error) {
	t, err := scanFoodToken(r.DB.QueryRowContext(ctx, `SELECT `+foodTokenColumns+` FROM food_tokens WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrFoodTokenNotFound
		}
		return nil, err
	}
	return t, nil
}

// MarkTokenValidated flips validated with a conditional UPDATE so a token cannot be redeemed twice.
func (r *canteenRepository) MarkTokenValidated(ctx context.Context, id string, at time.Time) (*domain.FoodToken, error) {
	query := `
		UPDATE food_tokens SET validated = TRUE, validated_at = $2
		WHERE id = $1 AND NOT validated
		RETURNING ` + foodTokenColumns
	t, err := scanFoodToken(r.DB.QueryRowContext(ctx, query, id, at))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		if isInvalidID(err) {
			return nil, domain.ErrFoodTokenNotFound
		}
		return nil, err
	}
	if _, err := r.GetToken(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrTokenAlreadyValidated
}

func (r *canteenRepository) ListTokensByUser(ctx context.Context, userID, date string) ([]*domain.FoodToken, error) {
	query := `SELECT ` + foodTokenColumns + ` FROM food_tokens WHERE user_id = $1 AND ($2 = '' OR valid_on = $2) ORDER BY generated_at`
	rows, err := r.DB.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tokens := make([]*domain.FoodToken, 0)
	for rows.Next() {
		t, err := scanFoodToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
