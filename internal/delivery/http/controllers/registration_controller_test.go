package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eduevent/internal/delivery/http/helpers"
	"eduevent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationController_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		principal  *domain.Principal
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"registered without body", nil, student("u1"), nil, http.StatusCreated, ""},
		{"registered with document", RegisterRequest{DocumentRef: strPtr("documents/u1/a.pdf")}, student("u1"), nil, http.StatusCreated, ""},
		{"unauthenticated", nil, nil, nil, http.StatusUnauthorized, helpers.ErrCodeUnauthorized},
		{"event not found", nil, student("u1"), domain.ErrEventNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"event full", nil, student("u1"), domain.ErrEventFull, http.StatusConflict, helpers.ErrCodeConflict},
		{"lost the last seat", nil, student("u1"), domain.ErrCapacityRaceLost, http.StatusConflict, helpers.ErrCodeConflict},
		{"already registered", nil, student("u1"), domain.ErrDuplicateRegistration, http.StatusConflict, helpers.ErrCodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRegistrationService{registerErr: tt.svcErr}
			ctrl := NewRegistrationController(testLogger, svc)
			rec := httptest.NewRecorder()

			ctrl.Register(rec, newRequest(http.MethodPost, "/events/e1/registrations", tt.body, tt.principal, map[string]string{"eventID": "e1"}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var reg domain.Registration
			apiErr := decodeResponse(t, rec, &reg)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "evt_abc", reg.Token)
			assert.Equal(t, "e1", svc.lastEventID)
			assert.Equal(t, "u1", svc.lastUserID)
			if tt.body != nil {
				require.NotNil(t, svc.lastDocumentRef)
				assert.Equal(t, "documents/u1/a.pdf", *svc.lastDocumentRef)
			} else {
				assert.Nil(t, svc.lastDocumentRef)
			}
		})
	}
}

func TestRegistrationController_Register_ChunkedEmptyBody(t *testing.T) {
	svc := &fakeRegistrationService{}
	ctrl := NewRegistrationController(testLogger, svc)
	req := newRequest(http.MethodPost, "/events/e1/registrations", nil, student("u1"), map[string]string{"eventID": "e1"})
	req.ContentLength = -1
	req.Body = io.NopCloser(strings.NewReader(""))
	rec := httptest.NewRecorder()

	ctrl.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u1", svc.lastUserID)
	assert.Nil(t, svc.lastDocumentRef)
}

func TestRegistrationController_ListForEvent(t *testing.T) {
	svc := &fakeRegistrationService{list: []*domain.Registration{{ID: "r1"}, {ID: "r2"}}}
	ctrl := NewRegistrationController(testLogger, svc)
	rec := httptest.NewRecorder()

	ctrl.ListForEvent(rec, newRequest(http.MethodGet, "/events/e1/registrations?page=2&page_size=1", nil, nil, map[string]string{"eventID": "e1"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListRegistrationsResponse
	require.Nil(t, decodeResponse(t, rec, &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 1}, svc.lastPagination)
}

func TestRegistrationController_ListMine(t *testing.T) {
	svc := &fakeRegistrationService{mine: []*domain.RegistrationWithEvent{{Registration: &domain.Registration{ID: "r1"}, Event: newTestEvent("e1")}}}
	ctrl := NewRegistrationController(testLogger, svc)

	rec := httptest.NewRecorder()
	ctrl.ListMine(rec, newRequest(http.MethodGet, "/me/registrations", nil, student("u7"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u7", svc.lastUserID)
	var mine []*domain.RegistrationWithEvent
	require.Nil(t, decodeResponse(t, rec, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Go Workshop", mine[0].Event.Name)

	rec = httptest.NewRecorder()
	ctrl.ListMine(rec, newRequest(http.MethodGet, "/me/registrations", nil, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegistrationController_CheckIn(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		svcErr     error
		wantStatus int
	}{
		{"checked in", CheckInRequest{Token: "evt_abc"}, nil, http.StatusOK},
		{"missing token", CheckInRequest{Token: "  "}, nil, http.StatusBadRequest},
		{"unknown token", CheckInRequest{Token: "evt_zzz"}, domain.ErrRegistrationNotFound, http.StatusNotFound},
		{"already checked in", CheckInRequest{Token: "evt_abc"}, domain.ErrAlreadyCheckedIn, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRegistrationService{checkInErr: tt.svcErr}
			ctrl := NewRegistrationController(testLogger, svc)
			rec := httptest.NewRecorder()

			ctrl.CheckIn(rec, newRequest(http.MethodPost, "/registrations/check-in", tt.body, nil, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func strPtr(s string) *string { return &s }
