package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduevent/internal/delivery/http/helpers"
	"eduevent/internal/delivery/http/middleware"
	"eduevent/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// newRequest builds a request with a JSON body (nil for none), path values and an optional principal.
func newRequest(method, target string, body any, principal *domain.Principal, pathValues map[string]string) *http.Request {
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			rdr = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if principal != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), principal))
	}
	return req
}

func student(id string) *domain.Principal {
	return &domain.Principal{UserID: id, Email: id + "@uni.edu", Roles: []string{domain.RoleStudent}}
}

// decodeResponse decodes the envelope and unmarshals data into dest when dest is non-nil.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if dest != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}

var testEventDate = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	signUpErr error
	loginErr  error
	lastRole  string
	lastEmail string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, _, name, role string) (*domain.User, error) {
	f.lastEmail, f.lastRole = email, role
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	u := domain.NewUser(email, name, domain.RoleStudent, time.Now(), time.Now())
	u.ID = "u1"
	u.PasswordHash = "secret-hash"
	return u, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	u := domain.NewUser(email, "Ada", domain.RoleStudent, time.Now(), time.Now())
	u.ID = "u1"
	return "jwt-token", u, nil
}

// fakeEventService implements domain.EventService.
type fakeEventService struct {
	events        map[string]*domain.Event
	createErr     error
	lastCreated   *domain.Event
	lastFinancial domain.EventFinancials
}

func (f *fakeEventService) ListEvents(context.Context) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreated = event
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = "e-new"
	return nil
}

func (f *fakeEventService) UpdateFinancials(_ context.Context, id string, fin domain.EventFinancials) (*domain.Event, error) {
	f.lastFinancial = fin
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if fin.EstimatedCost != nil {
		e.EstimatedCost = fin.EstimatedCost
	}
	if fin.SponsorshipAmount != nil {
		e.SponsorshipAmount = fin.SponsorshipAmount
	}
	return e, nil
}

// fakeRegistrationService implements domain.RegistrationService.
type fakeRegistrationService struct {
	registerErr     error
	checkInErr      error
	lastEventID     string
	lastUserID      string
	lastDocumentRef *string
	lastToken       string
	lastPagination  domain.PaginationParams
	list            []*domain.Registration
	mine            []*domain.RegistrationWithEvent
}

func (f *fakeRegistrationService) Register(_ context.Context, eventID, userID string, documentRef *string) (*domain.Registration, error) {
	f.lastEventID, f.lastUserID, f.lastDocumentRef = eventID, userID, documentRef
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	reg := domain.NewRegistration(eventID, userID, "evt_abc", documentRef, time.Now())
	reg.ID = "r1"
	return reg, nil
}

func (f *fakeRegistrationService) ListForEvent(_ context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	f.lastEventID, f.lastPagination = eventID, p
	return f.list, len(f.list), nil
}

func (f *fakeRegistrationService) ListMine(_ context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	f.lastUserID = userID
	return f.mine, nil
}

func (f *fakeRegistrationService) CheckIn(_ context.Context, token string) (*domain.Registration, error) {
	f.lastToken = token
	if f.checkInErr != nil {
		return nil, f.checkInErr
	}
	now := time.Now()
	return &domain.Registration{ID: "r1", Token: token, CheckedInAt: &now}, nil
}
