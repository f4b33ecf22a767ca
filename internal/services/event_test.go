package services

import (
	"context"
	"testing"
	"time"

	"eduevent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestEventService_CreateEvent(t *testing.T) {
	date := time.Date(2026, 11, 5, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		event   *domain.Event
		wantErr bool
	}{
		{name: "valid", event: &domain.Event{Name: " Hackathon ", Date: date, TotalSeats: 100, Cost: 5}},
		{name: "missing name", event: &domain.Event{Name: "  ", Date: date, TotalSeats: 10}, wantErr: true},
		{name: "zero seats", event: &domain.Event{Name: "x", Date: date, TotalSeats: 0}, wantErr: true},
		{name: "too many seats", event: &domain.Event{Name: "x", Date: date, TotalSeats: maxTotalSeats + 1}, wantErr: true},
		{name: "negative cost", event: &domain.Event{Name: "x", Date: date, TotalSeats: 10, Cost: -1}, wantErr: true},
		{name: "missing date", event: &domain.Event{Name: "x", TotalSeats: 10}, wantErr: true},
		{name: "negative sponsorship", event: &domain.Event{Name: "x", Date: date, TotalSeats: 10, SponsorshipAmount: floatPtr(-3)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			svc := NewEventService(repo, time.Second)
			err := svc.CreateEvent(context.Background(), tt.event)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Empty(t, repo.byID)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.event.ID)
			assert.Equal(t, "Hackathon", tt.event.Name)
			assert.Equal(t, 0, tt.event.RegisteredSeats)
			assert.False(t, tt.event.CreatedAt.IsZero())
		})
	}
}

func TestEventService_GetEvent(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(testEvent("ev-1", 5, 2)), time.Second)

	ev, err := svc.GetEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 3, ev.AvailableSeats())

	_, err = svc.GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventService_ListEvents_Empty(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), time.Second)
	events, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventService_UpdateFinancials(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newFakeEventRepo(testEvent("ev-1", 5, 0)), time.Second)

	ev, err := svc.UpdateFinancials(ctx, "ev-1", domain.EventFinancials{EstimatedCost: floatPtr(1200)})
	require.NoError(t, err)
	require.NotNil(t, ev.EstimatedCost)
	assert.Equal(t, 1200.0, *ev.EstimatedCost)
	assert.Nil(t, ev.SponsorshipAmount)

	_, err = svc.UpdateFinancials(ctx, "ev-1", domain.EventFinancials{SponsorshipAmount: floatPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateFinancials(ctx, "missing", domain.EventFinancials{})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}
