package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"eduevent/internal/domain"
)

type hostelRepository struct {
	mu         sync.RWMutex
	rooms      map[string]*domain.HostelRoom
	requests   map[string]*domain.RoomRequest
	complaints map[string]*domain.Complaint
}

// NewHostelRepository returns a hostel store seeded with rooms.
func NewHostelRepository(rooms ...*domain.HostelRoom) domain.HostelRepository {
	r := &hostelRepository{
		rooms:      make(map[string]*domain.HostelRoom),
		requests:   make(map[string]*domain.RoomRequest),
		complaints: make(map[string]*domain.Complaint),
	}
	for _, room := range rooms {
		c := cloneRoom(room)
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		r.rooms[c.ID] = c
	}
	return r
}

func cloneRoom(room *domain.HostelRoom) *domain.HostelRoom {
	c := *room
	c.Occupants = append([]string{}, room.Occupants...)
	return &c
}

func cloneRequest(req *domain.RoomRequest) *domain.RoomRequest {
	c := *req
	c.CurrentRoomID = cloneString(req.CurrentRoomID)
	c.PreferredRoomID = cloneString(req.PreferredRoomID)
	c.AdminNotes = cloneString(req.AdminNotes)
	if req.ResolvedAt != nil {
		t := *req.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func cloneComplaint(cm *domain.Complaint) *domain.Complaint {
	c := *cm
	c.RoomID = cloneString(cm.RoomID)
	c.AdminNotes = cloneString(cm.AdminNotes)
	if cm.ResolvedAt != nil {
		t := *cm.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (r *hostelRepository) ListRooms(ctx context.Context) ([]*domain.HostelRoom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.HostelRoom, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, cloneRoom(room))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Block == out[j].Block {
			return out[i].RoomNumber < out[j].RoomNumber
		}
		return out[i].Block < out[j].Block
	})
	return out, nil
}

func (r *hostelRepository) GetRoom(ctx context.Context, id string) (*domain.HostelRoom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (r *hostelRepository) CreateRequest(ctx context.Context, req *domain.RoomRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	r.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *hostelRepository) ListRequests(ctx context.Context, filter domain.HostelFilter) ([]*domain.RoomRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.RoomRequest{}
	for _, req := range r.requests {
		if matchesFilter(filter, req.Status, req.UserID) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func matchesFilter(filter domain.HostelFilter, status domain.RequestStatus, userID string) bool {
	return (filter.Status == "" || filter.Status == status) && (filter.UserID == "" || filter.UserID == userID)
}

func (r *hostelRepository) UpdateRequestStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.RoomRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	req.Status = change.Status
	if change.AdminNotes != nil {
		req.AdminNotes = cloneString(change.AdminNotes)
	}
	if change.Status.Closed() {
		t := change.At
		req.ResolvedAt = &t
	}
	return cloneRequest(req), nil
}

func (r *hostelRepository) CreateComplaint(ctx context.Context, c *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.complaints[c.ID] = cloneComplaint(c)
	return nil
}

func (r *hostelRepository) ListComplaints(ctx context.Context, filter domain.HostelFilter) ([]*domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.Complaint{}
	for _, c := range r.complaints {
		if matchesFilter(filter, c.Status, c.UserID) {
			out = append(out, cloneComplaint(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r *hostelRepository) UpdateComplaintStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, domain.ErrComplaintNotFound
	}
	c.Status = change.Status
	if change.AdminNotes != nil {
		c.AdminNotes = cloneString(change.AdminNotes)
	}
	if change.Status.Closed() {
		t := change.At
		c.ResolvedAt = &t
	}
	return cloneComplaint(c), nil
}
