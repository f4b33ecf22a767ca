package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eduevent/internal/domain"
)

func newTestEvent(total int) *domain.Event {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.NewEvent("Intro to Go", "desc", "Jane Doe", "A101", now.Add(48*time.Hour), total, 0, now, now)
}

func TestEventRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()

	ev := newTestEvent(50)
	ev.RegisteredSeats = 12
	require.NoError(t, repo.Create(ctx, ev))
	require.NotEmpty(t, ev.ID)

	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.RegisteredSeats)
	require.Equal(t, 50, got.TotalSeats)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrEventNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepository_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	ev := newTestEvent(5)
	require.NoError(t, repo.Create(ctx, ev))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	list[0].RegisteredSeats = 5
	list[0].AssignedVolunteers = append(list[0].AssignedVolunteers, "vol-x")

	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.RegisteredSeats)
	require.Empty(t, got.AssignedVolunteers)
}

func TestEventRepository_IncrementSeats(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	ev := newTestEvent(2)
	require.NoError(t, repo.Create(ctx, ev))

	got, err := repo.IncrementSeats(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.RegisteredSeats)
	got, err = repo.IncrementSeats(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.RegisteredSeats)

	_, err = repo.IncrementSeats(ctx, ev.ID)
	require.ErrorIs(t, err, domain.ErrCapacityRaceLost)
	require.ErrorIs(t, err, domain.ErrEventFull)

	_, err = repo.IncrementSeats(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventRepository_IncrementSeatsConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	ev := newTestEvent(10)
	require.NoError(t, repo.Create(ctx, ev))

	var ok, full atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementSeats(ctx, ev.ID)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrEventFull):
				full.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(10), ok.Load())
	require.Equal(t, int32(90), full.Load())
	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, 10, got.RegisteredSeats)
}

func TestEventRepository_ReleaseSeat(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	ev := newTestEvent(1)
	require.NoError(t, repo.Create(ctx, ev))

	_, err := repo.IncrementSeats(ctx, ev.ID)
	require.NoError(t, err)
	require.NoError(t, repo.ReleaseSeat(ctx, ev.ID))
	require.NoError(t, repo.ReleaseSeat(ctx, ev.ID))

	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.RegisteredSeats)
	require.ErrorIs(t, repo.ReleaseSeat(ctx, "missing"), domain.ErrEventNotFound)
}

func TestEventRepository_UpdateFinancialsAndVolunteers(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	ev := newTestEvent(10)
	require.NoError(t, repo.Create(ctx, ev))

	cost := 200.0
	got, err := repo.UpdateFinancials(ctx, ev.ID, domain.EventFinancials{EstimatedCost: &cost})
	require.NoError(t, err)
	require.Equal(t, 200.0, *got.EstimatedCost)
	require.Nil(t, got.SponsorshipAmount)

	require.NoError(t, repo.AssignVolunteer(ctx, ev.ID, "vol1"))
	require.NoError(t, repo.AssignVolunteer(ctx, ev.ID, "vol1"))
	require.NoError(t, repo.AssignVolunteer(ctx, ev.ID, "vol2"))
	got, err = repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"vol1", "vol2"}, got.AssignedVolunteers)

	require.NoError(t, repo.RemoveVolunteer(ctx, ev.ID, "vol1"))
	got, err = repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"vol2"}, got.AssignedVolunteers)
}
