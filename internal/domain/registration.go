package domain

import (
	"context"
	"time"
)

// Registration represents an attendee's seat at an event.
// swagger:model Registration
type Registration struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	UserID      string     `json:"user_id"`
	Token       string     `json:"token"`
	DocumentRef *string    `json:"document_ref,omitempty"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewRegistration creates a new Registration. ID is typically set by the repository on create.
func NewRegistration(eventID, userID, token string, documentRef *string, createdAt time.Time) *Registration {
	return &Registration{
		EventID:     eventID,
		UserID:      userID,
		Token:       token,
		DocumentRef: documentRef,
		CreatedAt:   createdAt,
	}
}

// Clone returns an independent copy of the registration.
func (r *Registration) Clone() *Registration {
	if r == nil {
		return nil
	}
	c := *r
	if r.DocumentRef != nil {
		d := *r.DocumentRef
		c.DocumentRef = &d
	}
	if r.CheckedInAt != nil {
		t := *r.CheckedInAt
		c.CheckedInAt = &t
	}
	return &c
}

// RegistrationRepository defines storage operations for registrations.
// Create must reject a second registration for the same (event, user) with ErrDuplicateRegistration.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	GetByToken(ctx context.Context, token string) (*Registration, error)
	ListByEventID(ctx context.Context, eventID string, p PaginationParams) ([]*Registration, int, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (*Registration, error)
}

// TokenGenerator produces opaque registration tokens, unique with overwhelming probability.
type TokenGenerator interface {
	Generate() (string, error)
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationConfirmed is published after a registration succeeds.
type RegistrationConfirmed struct {
	RegistrationID string    `json:"registration_id"`
	EventID        string    `json:"event_id"`
	EventName      string    `json:"event_name"`
	EventDate      time.Time `json:"event_date"`
	Room           string    `json:"room"`
	UserID         string    `json:"user_id"`
	Token          string    `json:"token"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

// RegistrationPublisher announces confirmed registrations to downstream consumers.
type RegistrationPublisher interface {
	PublishRegistrationConfirmed(ctx context.Context, msg *RegistrationConfirmed) error
}

// RegistrationService defines attendee-facing registration operations.
type RegistrationService interface {
	// Register takes a seat for userID at eventID and issues a token. documentRef is optional.
	Register(ctx context.Context, eventID, userID string, documentRef *string) (*Registration, error)
	ListForEvent(ctx context.Context, eventID string, p PaginationParams) ([]*Registration, int, error)
	ListMine(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	CheckIn(ctx context.Context, token string) (*Registration, error)
}
