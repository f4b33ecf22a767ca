package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"eduevent/internal/domain"
)

type volunteerService struct {
	// mu serializes read-modify-write cycles because VolunteerRepository.Update replaces the record.
	mu            sync.Mutex
	volunteerRepo domain.VolunteerRepository
	eventRepo     domain.EventRepository
}

func NewVolunteerService(volunteerRepo domain.VolunteerRepository, eventRepo domain.EventRepository) domain.VolunteerService {
	return &volunteerService{volunteerRepo: volunteerRepo, eventRepo: eventRepo}
}

func (s *volunteerService) ListVolunteers(ctx context.Context) ([]*domain.Volunteer, error) {
	vs, err := s.volunteerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	return vs, nil
}

func (s *volunteerService) GetVolunteer(ctx context.Context, id string) (*domain.Volunteer, error) {
	v, err := s.volunteerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("get volunteer: %w", err)
	}
	return v, nil
}

func (s *volunteerService) CreateVolunteer(ctx context.Context, name, email string) (*domain.Volunteer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, domain.InvalidInputError("name is required")
	}
	if !emailRegexp.MatchString(email) {
		return nil, domain.InvalidInputError("invalid email format")
	}
	v := &domain.Volunteer{
		Name:             name,
		Email:            email,
		AssignedEventIDs: []string{},
		Attendance:       map[string]bool{},
		Tasks:            map[string]string{},
		CreatedAt:        time.Now(),
	}
	if err := s.volunteerRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create volunteer: %w", err)
	}
	return v, nil
}

// SetAssignment adds or removes eventID from the volunteer and mirrors the change on the event.
// Removing an assignment also drops the attendance and task recorded for that event.
// The volunteer is persisted first and restored if the event update fails.
func (s *volunteerService) SetAssignment(ctx context.Context, volunteerID, eventID string, assigned bool) (*domain.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	v, err := s.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	prev := v.Clone()

	if assigned {
		if !slices.Contains(v.AssignedEventIDs, eventID) {
			v.AssignedEventIDs = append(v.AssignedEventIDs, eventID)
		}
	} else {
		v.AssignedEventIDs = slices.DeleteFunc(v.AssignedEventIDs, func(id string) bool { return id == eventID })
		delete(v.Attendance, eventID)
		delete(v.Tasks, eventID)
	}
	if err := s.volunteerRepo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update volunteer: %w", err)
	}

	if assigned {
		err = s.eventRepo.AssignVolunteer(ctx, eventID, volunteerID)
	} else {
		err = s.eventRepo.RemoveVolunteer(ctx, eventID, volunteerID)
	}
	if err != nil {
		if rbErr := s.volunteerRepo.Update(ctx, prev); rbErr != nil {
			return nil, fmt.Errorf("update event volunteers: %w (restore volunteer: %v)", err, rbErr)
		}
		return nil, fmt.Errorf("update event volunteers: %w", err)
	}
	return v, nil
}

func (s *volunteerService) TrackAttendance(ctx context.Context, volunteerID, eventID string, attended bool) (*domain.Volunteer, error) {
	return s.updateAssigned(ctx, volunteerID, eventID, func(v *domain.Volunteer) {
		v.Attendance[eventID] = attended
	})
}

func (s *volunteerService) AssignTask(ctx context.Context, volunteerID, eventID, task string) (*domain.Volunteer, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, domain.InvalidInputError("task is required")
	}
	return s.updateAssigned(ctx, volunteerID, eventID, func(v *domain.Volunteer) {
		v.Tasks[eventID] = task
	})
}

func (s *volunteerService) updateAssigned(ctx context.Context, volunteerID, eventID string, apply func(*domain.Volunteer)) (*domain.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(v.AssignedEventIDs, eventID) {
		return nil, domain.ErrVolunteerNotAssigned
	}
	if v.Attendance == nil {
		v.Attendance = map[string]bool{}
	}
	if v.Tasks == nil {
		v.Tasks = map[string]string{}
	}
	apply(v)
	if err := s.volunteerRepo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update volunteer: %w", err)
	}
	return v, nil
}
