package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eduevent/internal/delivery/http/helpers"
	"eduevent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(id string) *domain.Event {
	e := domain.NewEvent("Go Workshop", "", "Rob", "Hall A", testEventDate, 30, 0, testEventDate, testEventDate)
	e.ID = id
	return e
}

func TestEventController_ListAndGet(t *testing.T) {
	svc := &fakeEventService{events: map[string]*domain.Event{"e1": newTestEvent("e1")}}
	ctrl := NewEventController(testLogger, svc)

	rec := httptest.NewRecorder()
	ctrl.ListEvents(rec, newRequest(http.MethodGet, "/events", nil, nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var events []*domain.Event
	require.Nil(t, decodeResponse(t, rec, &events))
	require.Len(t, events, 1)
	assert.Equal(t, 30, events[0].TotalSeats)

	rec = httptest.NewRecorder()
	ctrl.GetEvent(rec, newRequest(http.MethodGet, "/events/e1", nil, nil, map[string]string{"eventID": "e1"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	ctrl.GetEvent(rec, newRequest(http.MethodGet, "/events/missing", nil, nil, map[string]string{"eventID": "missing"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	apiErr := decodeResponse(t, rec, nil)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeNotFound, apiErr.Code)
}

func TestEventController_CreateEvent(t *testing.T) {
	est := 500.0
	tests := []struct {
		name       string
		body       any
		svcErr     error
		wantStatus int
	}{
		{"created", CreateEventRequest{Name: "Go Workshop", Date: testEventDate, TotalSeats: 30, EstimatedCost: &est}, nil, http.StatusCreated},
		{"missing name", CreateEventRequest{Date: testEventDate, TotalSeats: 30}, nil, http.StatusBadRequest},
		{"zero seats", CreateEventRequest{Name: "Go Workshop", Date: testEventDate}, nil, http.StatusBadRequest},
		{"service rejects", CreateEventRequest{Name: "Go Workshop", Date: testEventDate, TotalSeats: 300000}, domain.InvalidInputError("total_seats must be between 1 and 100000"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{createErr: tt.svcErr}
			ctrl := NewEventController(testLogger, svc)
			rec := httptest.NewRecorder()

			ctrl.CreateEvent(rec, newRequest(http.MethodPost, "/events", tt.body, nil, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				var event domain.Event
				require.Nil(t, decodeResponse(t, rec, &event))
				assert.Equal(t, "e-new", event.ID)
				assert.Equal(t, 0, event.RegisteredSeats)
				require.NotNil(t, svc.lastCreated.EstimatedCost)
				assert.InDelta(t, 500.0, *svc.lastCreated.EstimatedCost, 0.001)
			}
		})
	}
}

func TestEventController_UpdateFinancials(t *testing.T) {
	svc := &fakeEventService{events: map[string]*domain.Event{"e1": newTestEvent("e1")}}
	ctrl := NewEventController(testLogger, svc)

	rec := httptest.NewRecorder()
	ctrl.UpdateFinancials(rec, newRequest(http.MethodPatch, "/events/e1/financials",
		`{"sponsorship_amount": 250}`, nil, map[string]string{"eventID": "e1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFinancial.SponsorshipAmount)
	assert.Nil(t, svc.lastFinancial.EstimatedCost)

	rec = httptest.NewRecorder()
	ctrl.UpdateFinancials(rec, newRequest(http.MethodPatch, "/events/e1/financials", `{}`, nil, map[string]string{"eventID": "e1"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
