package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eduevent/internal/domain"
)

type registrationService struct {
	logger           *slog.Logger
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	tokens           domain.TokenGenerator
	publisher        domain.RegistrationPublisher
	locks            *keyedMutex
	now              func() time.Time
}

// NewRegistrationService creates a RegistrationService. publisher may be nil to skip confirmations.
func NewRegistrationService(
	logger *slog.Logger,
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	tokens domain.TokenGenerator,
	publisher domain.RegistrationPublisher,
) domain.RegistrationService {
	return &registrationService{
		logger:           logger,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		tokens:           tokens,
		publisher:        publisher,
		locks:            newKeyedMutex(),
		now:              time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, userID string, documentRef *string) (*domain.Registration, error) {
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(userID) == "" {
		return nil, domain.InvalidInputError("event id and user id are required")
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	// Fast rejection; IncrementSeats below is the authoritative check.
	if event.IsFull() {
		return nil, domain.ErrEventFull
	}

	// One identity registers for one event at a time, so the duplicate check and the
	// seat increment cannot interleave with a second request from the same user.
	unlock := s.locks.Lock(eventID + ":" + userID)
	defer unlock()

	if _, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, domain.ErrDuplicateRegistration
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	token, err := s.tokens.Generate()
	if err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.IncrementSeats(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventFull):
			return nil, domain.ErrCapacityRaceLost
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("increment seats: %w", err)
	}

	reg := domain.NewRegistration(eventID, userID, token, documentRef, s.now())
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if relErr := s.eventRepo.ReleaseSeat(context.WithoutCancel(ctx), eventID); relErr != nil {
			s.logger.ErrorContext(ctx, "release seat after failed registration", "event_id", eventID, "err", relErr)
		}
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.logger.InfoContext(ctx, "registration created",
		"event_id", eventID,
		"registration_id", reg.ID,
		"registered_seats", updated.RegisteredSeats,
		"total_seats", updated.TotalSeats,
	)
	s.publishConfirmed(ctx, updated, reg)
	return reg, nil
}

// publishConfirmed is best-effort; failures are logged.
func (s *registrationService) publishConfirmed(ctx context.Context, event *domain.Event, reg *domain.Registration) {
	if s.publisher == nil {
		return
	}
	msg := &domain.RegistrationConfirmed{
		RegistrationID: reg.ID,
		EventID:        event.ID,
		EventName:      event.Name,
		EventDate:      event.Date,
		Room:           event.Room,
		UserID:         reg.UserID,
		Token:          reg.Token,
		ConfirmedAt:    reg.CreatedAt,
	}
	if err := s.publisher.PublishRegistrationConfirmed(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "publish registration confirmed", "registration_id", reg.ID, "err", err)
	}
}

func (s *registrationService) ListForEvent(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrEventNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	regs, total, err := s.registrationRepo.ListByEventID(ctx, eventID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}

func (s *registrationService) ListMine(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.RegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}

func (s *registrationService) CheckIn(ctx context.Context, token string) (*domain.Registration, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.InvalidInputError("token is required")
	}
	reg, err := s.registrationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get registration by token: %w", err)
	}
	checked, err := s.registrationRepo.MarkCheckedIn(ctx, reg.ID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			return nil, domain.ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("check in: %w", err)
	}
	return checked, nil
}
