package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eduevent/internal/delivery/http/helpers"
	"eduevent/internal/delivery/http/middleware"
	"eduevent/internal/domain"
)

// CreateMenuItemRequest is the request body for POST /canteen/items.
type CreateMenuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsVeg       bool    `json:"is_veg"`
	ImageURL    string  `json:"image_url"`
}

// Validate implements Validator.
func (c CreateMenuItemRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !domain.ValidCategory(c.Category) {
		errs = append(errs, "category must be one of Breakfast, Lunch, Dinner, Snacks, Beverage")
	}
	if c.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

// SetMenuRequest is the request body for PUT /canteen/menus/{date}.
type SetMenuRequest struct {
	BreakfastItems []string `json:"breakfast_items"`
	LunchItems     []string `json:"lunch_items"`
	DinnerItems    []string `json:"dinner_items"`
}

// GenerateFoodTokenRequest is the request body for POST /canteen/tokens. Date defaults to today.
type GenerateFoodTokenRequest struct {
	MenuItemID string          `json:"menu_item_id"`
	MealType   domain.MealType `json:"meal_type"`
	Date       string          `json:"date"`
}

// Validate implements Validator.
func (g GenerateFoodTokenRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(g.MenuItemID) == "" {
		errs = append(errs, "menu_item_id is required")
	}
	if !g.MealType.Valid() {
		errs = append(errs, "meal_type must be one of Breakfast, Lunch, Dinner")
	}
	return errs
}

// ValidateFoodTokenRequest is the request body for POST /canteen/tokens/validate.
type ValidateFoodTokenRequest struct {
	TokenID string `json:"token_id"`
}

// Validate implements Validator.
func (v ValidateFoodTokenRequest) Validate() []string {
	if strings.TrimSpace(v.TokenID) == "" {
		return []string{"token_id is required"}
	}
	return nil
}

type CanteenController struct {
	Logger  *slog.Logger
	Service domain.CanteenService
}

func NewCanteenController(logger *slog.Logger, svc domain.CanteenService) *CanteenController {
	return &CanteenController{
		Logger:  logger,
		Service: svc,
	}
}

// ListItems godoc
// @Summary List menu items
// @Tags canteen
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains menu items"
// @Router /canteen/items [get]
func (c *CanteenController) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListItems(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}

// AddItem godoc
// @Summary Add a menu item
// @Tags canteen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMenuItemRequest true "Menu item"
// @Success 201 {object} helpers.APIResponse "data contains the menu item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /canteen/items [post]
func (c *CanteenController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	item := &domain.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsVeg:       req.IsVeg,
		ImageURL:    req.ImageURL,
	}
	if err := c.Service.AddItem(r.Context(), item); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, item)
}

// GetMenu godoc
// @Summary Get the menu for a date
// @Tags canteen
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains the DailyMenu"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (no menu for date)"
// @Router /canteen/menus/{date} [get]
func (c *CanteenController) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := c.Service.GetMenu(r.Context(), r.PathValue("date"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, menu)
}

// SetMenu godoc
// @Summary Create or replace the menu for a date
// @Tags canteen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param body body SetMenuRequest true "Item IDs per meal"
// @Success 200 {object} helpers.APIResponse "data contains the DailyMenu"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /canteen/menus/{date} [put]
func (c *CanteenController) SetMenu(w http.ResponseWriter, r *http.Request) {
	var req SetMenuRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	menu, err := c.Service.SetMenu(r.Context(), &domain.DailyMenu{
		Date:           r.PathValue("date"),
		BreakfastItems: req.BreakfastItems,
		LunchItems:     req.LunchItems,
		DinnerItems:    req.DinnerItems,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, menu)
}

// GenerateToken godoc
// @Summary Generate a food token
// @Description Issues a token for one item of one meal. The item must be on that date's menu for that meal.
// @Tags canteen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateFoodTokenRequest true "Token request"
// @Success 201 {object} helpers.APIResponse "data contains the FoodToken"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /canteen/tokens [post]
func (c *CanteenController) GenerateToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req GenerateFoodTokenRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.GenerateToken(r.Context(), userID, req.MenuItemID, req.MealType, req.Date)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, token)
}

// ValidateToken godoc
// @Summary Validate a food token at the counter
// @Description A token validates once and only on its date.
// @Tags canteen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ValidateFoodTokenRequest true "Token ID"
// @Success 200 {object} helpers.APIResponse "data contains the FoodToken"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /canteen/tokens/validate [post]
func (c *CanteenController) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req ValidateFoodTokenRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.ValidateToken(r.Context(), req.TokenID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, token)
}

// ListMyTokens godoc
// @Summary List my food tokens
// @Tags canteen
// @Produce json
// @Security BearerAuth
// @Param date query string false "Only tokens valid on this date (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains food tokens"
// @Router /me/canteen/tokens [get]
func (c *CanteenController) ListMyTokens(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	tokens, err := c.Service.ListUserTokens(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tokens)
}
