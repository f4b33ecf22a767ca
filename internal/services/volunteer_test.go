package services

import (
	"context"
	"errors"
	"testing"

	"eduevent/internal/domain"
	"eduevent/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolunteerService_AssignmentLifecycle(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo(testEvent("ev-1", 10, 0))
	svc := NewVolunteerService(memory.NewVolunteerRepository(), events)

	v, err := svc.CreateVolunteer(ctx, " Priya ", "Priya@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Priya", v.Name)
	assert.Equal(t, "priya@example.com", v.Email)

	_, err = svc.TrackAttendance(ctx, v.ID, "ev-1", true)
	assert.ErrorIs(t, err, domain.ErrVolunteerNotAssigned)

	v, err = svc.SetAssignment(ctx, v.ID, "ev-1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ev-1"}, v.AssignedEventIDs)
	ev, err := events.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, []string{v.ID}, ev.AssignedVolunteers)

	// assigning twice is a no-op on the volunteer
	v, err = svc.SetAssignment(ctx, v.ID, "ev-1", true)
	require.NoError(t, err)
	assert.Len(t, v.AssignedEventIDs, 1)

	v, err = svc.TrackAttendance(ctx, v.ID, "ev-1", true)
	require.NoError(t, err)
	assert.True(t, v.Attendance["ev-1"])

	v, err = svc.AssignTask(ctx, v.ID, "ev-1", "  registration desk ")
	require.NoError(t, err)
	assert.Equal(t, "registration desk", v.Tasks["ev-1"])

	v, err = svc.SetAssignment(ctx, v.ID, "ev-1", false)
	require.NoError(t, err)
	assert.Empty(t, v.AssignedEventIDs)
	assert.NotContains(t, v.Attendance, "ev-1")
	assert.NotContains(t, v.Tasks, "ev-1")
	ev, err = events.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Empty(t, ev.AssignedVolunteers)

	stored, err := svc.GetVolunteer(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AssignedEventIDs)
}

func TestVolunteerService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewVolunteerService(memory.NewVolunteerRepository(), newFakeEventRepo(testEvent("ev-1", 10, 0)))

	_, err := svc.CreateVolunteer(ctx, "", "a@example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.CreateVolunteer(ctx, "A", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetVolunteer(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrVolunteerNotFound)

	v, err := svc.CreateVolunteer(ctx, "A", "a@example.com")
	require.NoError(t, err)
	_, err = svc.SetAssignment(ctx, v.ID, "missing", true)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = svc.SetAssignment(ctx, v.ID, "ev-1", true)
	require.NoError(t, err)
	_, err = svc.AssignTask(ctx, v.ID, "ev-1", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingVolunteerRepo struct {
	domain.VolunteerRepository
	updateErr error
}

func (r *failingVolunteerRepo) Update(ctx context.Context, v *domain.Volunteer) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	return r.VolunteerRepository.Update(ctx, v)
}

func TestVolunteerService_SetAssignment_VolunteerWriteFailsLeavesEventUntouched(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo(testEvent("ev-1", 10, 0))
	volunteers := &failingVolunteerRepo{VolunteerRepository: memory.NewVolunteerRepository()}
	svc := NewVolunteerService(volunteers, events)

	v, err := svc.CreateVolunteer(ctx, "A", "a@example.com")
	require.NoError(t, err)

	writeErr := errors.New("disk full")
	volunteers.updateErr = writeErr
	_, err = svc.SetAssignment(ctx, v.ID, "ev-1", true)
	assert.ErrorIs(t, err, writeErr)

	ev, err := events.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Empty(t, ev.AssignedVolunteers)
}

func TestVolunteerService_SetAssignment_EventWriteFailsRestoresVolunteer(t *testing.T) {
	ctx := context.Background()
	writeErr := errors.New("connection reset")

	tests := []struct {
		name     string
		assigned bool
		setup    func(t *testing.T, svc domain.VolunteerService, id string)
		wantIDs  []string
	}{
		{
			name:     "assign",
			assigned: true,
			setup:    func(t *testing.T, svc domain.VolunteerService, id string) {},
			wantIDs:  []string{},
		},
		{
			name:     "unassign",
			assigned: false,
			setup: func(t *testing.T, svc domain.VolunteerService, id string) {
				_, err := svc.SetAssignment(ctx, id, "ev-1", true)
				require.NoError(t, err)
				_, err = svc.AssignTask(ctx, id, "ev-1", "stage")
				require.NoError(t, err)
			},
			wantIDs: []string{"ev-1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEventRepo(testEvent("ev-1", 10, 0))
			svc := NewVolunteerService(memory.NewVolunteerRepository(), events)
			v, err := svc.CreateVolunteer(ctx, "A", "a@example.com")
			require.NoError(t, err)
			tt.setup(t, svc, v.ID)

			events.volunteerErr = writeErr
			_, err = svc.SetAssignment(ctx, v.ID, "ev-1", tt.assigned)
			assert.ErrorIs(t, err, writeErr)

			stored, err := svc.GetVolunteer(ctx, v.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, stored.AssignedEventIDs)
			if !tt.assigned {
				assert.Equal(t, "stage", stored.Tasks["ev-1"])
			}
		})
	}
}
