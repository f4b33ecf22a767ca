package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eduevent/internal/domain"
)

type hostelService struct {
	hostelRepo domain.HostelRepository
	now        func() time.Time
}

func NewHostelService(hostelRepo domain.HostelRepository) domain.HostelService {
	return &hostelService{hostelRepo: hostelRepo, now: time.Now}
}

func (s *hostelService) ListRooms(ctx context.Context) ([]*domain.HostelRoom, error) {
	rooms, err := s.hostelRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *hostelService) SubmitRequest(ctx context.Context, req *domain.RoomRequest) error {
	if req.UserID == "" {
		return domain.InvalidInputError("user id is required")
	}
	if req.RequestType != domain.RequestTypeChange && req.RequestType != domain.RequestTypeMaintenance {
		return domain.InvalidInputError("request_type must be %q or %q", domain.RequestTypeChange, domain.RequestTypeMaintenance)
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return domain.InvalidInputError("description is required")
	}
	for _, roomID := range []*string{req.CurrentRoomID, req.PreferredRoomID} {
		if err := s.checkRoom(ctx, roomID); err != nil {
			return err
		}
	}

	req.Status = domain.StatusPending
	req.SubmittedAt = s.now()
	req.ResolvedAt = nil
	req.AdminNotes = nil
	if err := s.hostelRepo.CreateRequest(ctx, req); err != nil {
		return fmt.Errorf("create room request: %w", err)
	}
	return nil
}

func (s *hostelService) ListRequests(ctx context.Context, filter domain.HostelFilter) ([]*domain.RoomRequest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.InvalidInputError("unknown status %q", filter.Status)
	}
	reqs, err := s.hostelRepo.ListRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list room requests: %w", err)
	}
	return reqs, nil
}

func (s *hostelService) UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus, adminNotes *string) (*domain.RoomRequest, error) {
	change, err := s.statusChange(status, adminNotes)
	if err != nil {
		return nil, err
	}
	req, err := s.hostelRepo.UpdateRequestStatus(ctx, id, change)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("update room request: %w", err)
	}
	return req, nil
}

func (s *hostelService) SubmitComplaint(ctx context.Context, c *domain.Complaint) error {
	if c.UserID == "" {
		return domain.InvalidInputError("user id is required")
	}
	c.Category = strings.TrimSpace(c.Category)
	c.Description = strings.TrimSpace(c.Description)
	if c.Category == "" || c.Description == "" {
		return domain.InvalidInputError("category and description are required")
	}
	if err := s.checkRoom(ctx, c.RoomID); err != nil {
		return err
	}

	c.Status = domain.StatusPending
	c.SubmittedAt = s.now()
	c.ResolvedAt = nil
	c.AdminNotes = nil
	if err := s.hostelRepo.CreateComplaint(ctx, c); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

func (s *hostelService) ListComplaints(ctx context.Context, filter domain.HostelFilter) ([]*domain.Complaint, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.InvalidInputError("unknown status %q", filter.Status)
	}
	cs, err := s.hostelRepo.ListComplaints(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return cs, nil
}

func (s *hostelService) UpdateComplaintStatus(ctx context.Context, id string, status domain.RequestStatus, adminNotes *string) (*domain.Complaint, error) {
	change, err := s.statusChange(status, adminNotes)
	if err != nil {
		return nil, err
	}
	c, err := s.hostelRepo.UpdateComplaintStatus(ctx, id, change)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("update complaint: %w", err)
	}
	return c, nil
}

func (s *hostelService) statusChange(status domain.RequestStatus, adminNotes *string) (domain.StatusChange, error) {
	if !status.Valid() {
		return domain.StatusChange{}, domain.InvalidInputError("unknown status %q", status)
	}
	if adminNotes != nil {
		trimmed := strings.TrimSpace(*adminNotes)
		if trimmed == "" {
			adminNotes = nil
		} else {
			adminNotes = &trimmed
		}
	}
	return domain.StatusChange{Status: status, AdminNotes: adminNotes, At: s.now()}, nil
}

func (s *hostelService) checkRoom(ctx context.Context, roomID *string) error {
	if roomID == nil {
		return nil
	}
	if _, err := s.hostelRepo.GetRoom(ctx, *roomID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRoomNotFound
		}
		return fmt.Errorf("get room: %w", err)
	}
	return nil
}
