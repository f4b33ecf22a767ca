package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"eduevent/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeEventRepo is an in-memory EventRepository for tests. Errors, when set, are returned by the matching method.
type fakeEventRepo struct {
	mu           sync.Mutex
	byID         map[string]*domain.Event
	nextID       int
	incrementErr error
	volunteerErr error
	releases     int
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.byID[id]; ok {
		return e.Clone(), nil
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e.Clone()
	return nil
}

func (f *fakeEventRepo) IncrementSeats(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrementErr != nil {
		return nil, f.incrementErr
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if e.RegisteredSeats >= e.TotalSeats {
		return nil, domain.ErrCapacityRaceLost
	}
	e.RegisteredSeats++
	return e.Clone(), nil
}

func (f *fakeEventRepo) ReleaseSeat(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	f.releases++
	if e.RegisteredSeats > 0 {
		e.RegisteredSeats--
	}
	return nil
}

func (f *fakeEventRepo) UpdateFinancials(ctx context.Context, id string, fin domain.EventFinancials) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if fin.EstimatedCost != nil {
		e.EstimatedCost = fin.EstimatedCost
	}
	if fin.SponsorshipAmount != nil {
		e.SponsorshipAmount = fin.SponsorshipAmount
	}
	return e.Clone(), nil
}

func (f *fakeEventRepo) AssignVolunteer(ctx context.Context, id, volunteerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.volunteerErr != nil {
		return f.volunteerErr
	}
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.AssignedVolunteers = append(e.AssignedVolunteers, volunteerID)
	return nil
}

func (f *fakeEventRepo) RemoveVolunteer(ctx context.Context, id, volunteerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.volunteerErr != nil {
		return f.volunteerErr
	}
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	kept := e.AssignedVolunteers[:0]
	for _, v := range e.AssignedVolunteers {
		if v != volunteerID {
			kept = append(kept, v)
		}
	}
	e.AssignedVolunteers = kept
	return nil
}

func (f *fakeEventRepo) seats(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].RegisteredSeats
}

// fakeRegistrationRepo implements domain.RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	mu        sync.Mutex
	regs      []*domain.Registration
	createErr error
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range f.regs {
		if r.EventID == reg.EventID && r.UserID == reg.UserID {
			return domain.ErrDuplicateRegistration
		}
	}
	reg.ID = fmt.Sprintf("reg-%d", len(f.regs)+1)
	f.regs = append(f.regs, reg.Clone())
	return nil
}

func (f *fakeRegistrationRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.EventID == eventID && r.UserID == userID {
			return r.Clone(), nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) GetByToken(ctx context.Context, token string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.Token == token {
			return r.Clone(), nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Registration
	for _, r := range f.regs {
		if r.EventID == eventID {
			out = append(out, r.Clone())
		}
	}
	return out, len(out), nil
}

func (f *fakeRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Registration
	for _, r := range f.regs {
		if r.UserID == userID {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) MarkCheckedIn(ctx context.Context, id string, at time.Time) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.ID == id {
			if r.CheckedInAt != nil {
				return nil, domain.ErrAlreadyCheckedIn
			}
			r.CheckedInAt = &at
			return r.Clone(), nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

// fakeTokenGenerator returns tok-1, tok-2, ... or err when set.
type fakeTokenGenerator struct {
	mu  sync.Mutex
	n   int
	err error
}

func (f *fakeTokenGenerator) Generate() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.n++
	return fmt.Sprintf("tok-%d", f.n), nil
}

// fakePublisher records published messages.
type fakePublisher struct {
	mu   sync.Mutex
	msgs []*domain.RegistrationConfirmed
	err  error
}

func (f *fakePublisher) PublishRegistrationConfirmed(ctx context.Context, msg *domain.RegistrationConfirmed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	salt string
	hash string
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return f.salt, nil }
func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	return "hash-" + password, nil
}
func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+password && (f.hash == "" || hash != f.hash) {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	token string
	err   error
	roles []string
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.roles = roles
	if f.token != "" {
		return f.token, nil
	}
	return "token-" + userID, nil
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
	for _, u := range users {
		f.byID[u.ID] = u
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeEmailService records the confirmation emails it was asked to send.
type fakeEmailService struct {
	sent []*domain.RegistrationEmailData
	err  error
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testEvent(id string, total, registered int) *domain.Event {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := domain.NewEvent("Go Workshop", "Intro to Go", "Rob", "Hall A", now.AddDate(0, 1, 0), total, 0, now, now)
	e.ID = id
	e.RegisteredSeats = registered
	return e
}
