package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eduevent/internal/domain"
)

const maxTotalSeats = 100000

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return domain.InvalidInputError("name is required")
	}
	if event.TotalSeats <= 0 || event.TotalSeats > maxTotalSeats {
		return domain.InvalidInputError("total_seats must be between 1 and %d", maxTotalSeats)
	}
	if event.Cost < 0 {
		return domain.InvalidInputError("cost must not be negative")
	}
	if event.Date.IsZero() {
		return domain.InvalidInputError("date is required")
	}
	if err := validateFinancials(domain.EventFinancials{
		EstimatedCost:     event.EstimatedCost,
		SponsorshipAmount: event.SponsorshipAmount,
	}); err != nil {
		return err
	}

	now := time.Now()
	event.RegisteredSeats = 0
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.AssignedVolunteers == nil {
		event.AssignedVolunteers = []string{}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) UpdateFinancials(ctx context.Context, id string, f domain.EventFinancials) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateFinancials(f); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.UpdateFinancials(ctx, id, f)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update financials: %w", err)
	}
	return updated, nil
}

func validateFinancials(f domain.EventFinancials) error {
	if f.EstimatedCost != nil && *f.EstimatedCost < 0 {
		return domain.InvalidInputError("estimated_cost must not be negative")
	}
	if f.SponsorshipAmount != nil && *f.SponsorshipAmount < 0 {
		return domain.InvalidInputError("sponsorship_amount must not be negative")
	}
	return nil
}
