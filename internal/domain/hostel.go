package domain

import (
	"context"
	"fmt"
	"time"
)

var (
	ErrRoomNotFound      = fmt.Errorf("hostel room %w", ErrNotFound)
	ErrRequestNotFound   = fmt.Errorf("room request %w", ErrNotFound)
	ErrComplaintNotFound = fmt.Errorf("complaint %w", ErrNotFound)
)

// RequestStatus is the workflow state shared by room requests and complaints.
type RequestStatus string

const (
	StatusPending    RequestStatus = "Pending"
	StatusInProgress RequestStatus = "In Progress"
	StatusResolved   RequestStatus = "Resolved"
	StatusRejected   RequestStatus = "Rejected"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Closed reports whether s ends the workflow.
func (s RequestStatus) Closed() bool {
	return s == StatusResolved || s == StatusRejected
}

// Room request types.
const (
	RequestTypeChange      = "Change"
	RequestTypeMaintenance = "Maintenance"
)

// HostelRoom is a room in a hostel block.
type HostelRoom struct {
	ID         string   `json:"id"`
	RoomNumber string   `json:"room_number"`
	Block      string   `json:"block"`
	Capacity   int      `json:"capacity"`
	Occupants  []string `json:"occupants"`
}

// RoomRequest is a student's request to change rooms or fix something.
// swagger:model RoomRequest
type RoomRequest struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	RequestType     string        `json:"request_type"`
	CurrentRoomID   *string       `json:"current_room_id,omitempty"`
	PreferredRoomID *string       `json:"preferred_room_id,omitempty"`
	Description     string        `json:"description"`
	Status          RequestStatus `json:"status"`
	SubmittedAt     time.Time     `json:"submitted_at"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty"`
	AdminNotes      *string       `json:"admin_notes,omitempty"`
}

// Complaint is a student's complaint, optionally tied to a room.
// swagger:model Complaint
type Complaint struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	RoomID      *string       `json:"room_id,omitempty"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	Status      RequestStatus `json:"status"`
	SubmittedAt time.Time     `json:"submitted_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
	AdminNotes  *string       `json:"admin_notes,omitempty"`
}

// StatusChange is an admin's update to a request or complaint.
type StatusChange struct {
	Status     RequestStatus
	AdminNotes *string
	At         time.Time
}

// HostelFilter narrows request and complaint listings. Empty fields match everything.
type HostelFilter struct {
	Status RequestStatus
	UserID string
}

// HostelRepository stores rooms, room requests and complaints.
type HostelRepository interface {
	ListRooms(ctx context.Context) ([]*HostelRoom, error)
	GetRoom(ctx context.Context, id string) (*HostelRoom, error)
	CreateRequest(ctx context.Context, req *RoomRequest) error
	ListRequests(ctx context.Context, filter HostelFilter) ([]*RoomRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, change StatusChange) (*RoomRequest, error)
	CreateComplaint(ctx context.Context, c *Complaint) error
	ListComplaints(ctx context.Context, filter HostelFilter) ([]*Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, change StatusChange) (*Complaint, error)
}

// HostelService handles room requests and complaints.
type HostelService interface {
	ListRooms(ctx context.Context) ([]*HostelRoom, error)
	SubmitRequest(ctx context.Context, req *RoomRequest) error
	ListRequests(ctx context.Context, filter HostelFilter) ([]*RoomRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status RequestStatus, adminNotes *string) (*RoomRequest, error)
	SubmitComplaint(ctx context.Context, c *Complaint) error
	ListComplaints(ctx context.Context, filter HostelFilter) ([]*Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, status RequestStatus, adminNotes *string) (*Complaint, error)
}
