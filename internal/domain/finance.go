package domain

import "context"

// FinancialEventDetail is one event's line in the finance report.
type FinancialEventDetail struct {
	EventID           string  `json:"event_id"`
	EventName         string  `json:"event_name"`
	EstimatedCost     float64 `json:"estimated_cost"`
	SponsorshipAmount float64 `json:"sponsorship_amount"`
	Net               float64 `json:"net"`
}

// FinancialSummary aggregates estimated cost against sponsorship across events.
// swagger:model FinancialSummary
type FinancialSummary struct {
	TotalEstimatedCost       float64                 `json:"total_estimated_cost"`
	TotalSponsorshipReceived float64                 `json:"total_sponsorship_received"`
	NetPosition              float64                 `json:"net_position"`
	Events                   []*FinancialEventDetail `json:"events"`
}

// FinanceService builds finance reports.
type FinanceService interface {
	Report(ctx context.Context) (*FinancialSummary, error)
}
