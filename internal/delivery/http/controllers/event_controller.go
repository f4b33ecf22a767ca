package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eduevent/internal/delivery/http/helpers"
	"eduevent/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Speaker           string    `json:"speaker"`
	Room              string    `json:"room"`
	Date              time.Time `json:"date"`
	TotalSeats        int       `json:"total_seats"`
	Cost              float64   `json:"cost"`
	Sponsor           *string   `json:"sponsor"`
	EstimatedCost     *float64  `json:"estimated_cost"`
	SponsorshipAmount *float64  `json:"sponsorship_amount"`
}

// Validate implements Validator. Bounds on seats and amounts are enforced by the event service.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	if c.TotalSeats <= 0 {
		errs = append(errs, "total_seats must be positive")
	}
	return errs
}

// UpdateFinancialsRequest is the request body for PATCH /events/{eventID}/financials. Omitted fields are unchanged.
type UpdateFinancialsRequest struct {
	EstimatedCost     *float64 `json:"estimated_cost"`
	SponsorshipAmount *float64 `json:"sponsorship_amount"`
}

// Validate implements Validator.
func (u UpdateFinancialsRequest) Validate() []string {
	if u.EstimatedCost == nil && u.SponsorshipAmount == nil {
		return []string{"estimated_cost or sponsorship_amount is required"}
	}
	return nil
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event `json:"data"`
	Error *h.APIError    `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events.
type EventListSuccessResponse struct {
	Data  []*domain.Event `json:"data"`
	Error *h.APIError     `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event with its seat counts. Public.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event with a fixed number of seats. id, registered_seats and timestamps are server-generated.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Name, req.Description, req.Speaker, req.Room, req.Date, req.TotalSeats, req.Cost, now, now)
	event.Sponsor = req.Sponsor
	event.EstimatedCost = req.EstimatedCost
	event.SponsorshipAmount = req.SponsorshipAmount
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateFinancials godoc
// @Summary Update event financials
// @Description Set the estimated cost and/or sponsorship amount of an event. Amounts must not be negative.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateFinancialsRequest true "Amounts to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/financials [patch]
func (c *EventController) UpdateFinancials(w http.ResponseWriter, r *http.Request) {
	var req UpdateFinancialsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateFinancials(r.Context(), r.PathValue("eventID"), domain.EventFinancials{
		EstimatedCost:     req.EstimatedCost,
		SponsorshipAmount: req.SponsorshipAmount,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}
