package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduevent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCanteenService struct {
	err      error
	lastMenu *domain.DailyMenu
	lastArgs []string
}

func (f *fakeCanteenService) ListItems(context.Context) ([]*domain.MenuItem, error) {
	return []*domain.MenuItem{{ID: "idli", Name: "Idli", Category: domain.CategoryBreakfast}}, f.err
}

func (f *fakeCanteenService) AddItem(_ context.Context, item *domain.MenuItem) error {
	if f.err != nil {
		return f.err
	}
	item.ID = "item-1"
	return nil
}

func (f *fakeCanteenService) GetMenu(_ context.Context, date string) (*domain.DailyMenu, error) {
	f.lastArgs = []string{date}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.DailyMenu{Date: date}, nil
}

func (f *fakeCanteenService) SetMenu(_ context.Context, menu *domain.DailyMenu) (*domain.DailyMenu, error) {
	f.lastMenu = menu
	return menu, f.err
}

func (f *fakeCanteenService) GenerateToken(_ context.Context, userID, menuItemID string, meal domain.MealType, date string) (*domain.FoodToken, error) {
	f.lastArgs = []string{userID, menuItemID, string(meal), date}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.FoodToken{ID: "ft-1", UserID: userID, MenuItemID: menuItemID, MealType: meal, ValidOn: date}, nil
}

func (f *fakeCanteenService) ValidateToken(_ context.Context, tokenID string) (*domain.FoodToken, error) {
	f.lastArgs = []string{tokenID}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.FoodToken{ID: tokenID, Validated: true}, nil
}

func (f *fakeCanteenService) ListUserTokens(_ context.Context, userID, date string) ([]*domain.FoodToken, error) {
	f.lastArgs = []string{userID, date}
	return []*domain.FoodToken{}, f.err
}

func TestCanteenController_AddItem(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"created", CreateMenuItemRequest{Name: "Masala Dosa", Price: 40, Category: domain.CategoryBreakfast, IsVeg: true}, http.StatusCreated},
		{"unknown category", CreateMenuItemRequest{Name: "Dosa", Price: 40, Category: "Brunch"}, http.StatusBadRequest},
		{"negative price", CreateMenuItemRequest{Name: "Dosa", Price: -1, Category: domain.CategorySnacks}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewCanteenController(testLogger, &fakeCanteenService{})
			rec := httptest.NewRecorder()
			ctrl.AddItem(rec, newRequest(http.MethodPost, "/canteen/items", tt.body, nil, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCanteenController_Menus(t *testing.T) {
	svc := &fakeCanteenService{}
	ctrl := NewCanteenController(testLogger, svc)
	date := map[string]string{"date": "2026-04-01"}

	rec := httptest.NewRecorder()
	ctrl.SetMenu(rec, newRequest(http.MethodPut, "/canteen/menus/2026-04-01", SetMenuRequest{BreakfastItems: []string{"idli"}}, nil, date))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-04-01", svc.lastMenu.Date)
	assert.Equal(t, []string{"idli"}, svc.lastMenu.BreakfastItems)

	svc.err = domain.ErrNoMenuForDate
	rec = httptest.NewRecorder()
	ctrl.GetMenu(rec, newRequest(http.MethodGet, "/canteen/menus/2026-04-02", nil, nil, map[string]string{"date": "2026-04-02"}))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCanteenController_Tokens(t *testing.T) {
	svc := &fakeCanteenService{}
	ctrl := NewCanteenController(testLogger, svc)

	rec := httptest.NewRecorder()
	ctrl.GenerateToken(rec, newRequest(http.MethodPost, "/canteen/tokens",
		GenerateFoodTokenRequest{MenuItemID: "idli", MealType: domain.MealBreakfast}, student("u1"), nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"u1", "idli", "Breakfast", ""}, svc.lastArgs)

	rec = httptest.NewRecorder()
	ctrl.GenerateToken(rec, newRequest(http.MethodPost, "/canteen/tokens",
		GenerateFoodTokenRequest{MenuItemID: "idli", MealType: "Supper"}, student("u1"), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	ctrl.ListMyTokens(rec, newRequest(http.MethodGet, "/me/canteen/tokens?date=2026-04-01", nil, student("u1"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u1", "2026-04-01"}, svc.lastArgs)

	svc.err = domain.ErrTokenAlreadyValidated
	rec = httptest.NewRecorder()
	ctrl.ValidateToken(rec, newRequest(http.MethodPost, "/canteen/tokens/validate", ValidateFoodTokenRequest{TokenID: "ft-1"}, nil, nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	svc.err = domain.ErrFoodTokenNotFound
	rec = httptest.NewRecorder()
	ctrl.ValidateToken(rec, newRequest(http.MethodPost, "/canteen/tokens/validate", ValidateFoodTokenRequest{TokenID: "nope"}, nil, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
