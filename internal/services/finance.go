package services

import (
	"context"
	"fmt"

	"eduevent/internal/domain"
)

type financeService struct {
	eventRepo domain.EventRepository
}

func NewFinanceService(eventRepo domain.EventRepository) domain.FinanceService {
	return &financeService{eventRepo: eventRepo}
}

// Report totals estimated cost and sponsorship over all events. Missing amounts count as zero.
func (s *financeService) Report(ctx context.Context) (*domain.FinancialSummary, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	summary := &domain.FinancialSummary{Events: make([]*domain.FinancialEventDetail, 0, len(events))}
	for _, e := range events {
		cost := valueOrZero(e.EstimatedCost)
		sponsorship := valueOrZero(e.SponsorshipAmount)
		summary.TotalEstimatedCost += cost
		summary.TotalSponsorshipReceived += sponsorship
		summary.Events = append(summary.Events, &domain.FinancialEventDetail{
			EventID:           e.ID,
			EventName:         e.Name,
			EstimatedCost:     cost,
			SponsorshipAmount: sponsorship,
			Net:               sponsorship - cost,
		})
	}
	summary.NetPosition = summary.TotalSponsorshipReceived - summary.TotalEstimatedCost
	return summary, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
