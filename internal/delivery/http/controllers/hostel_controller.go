package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eduevent/internal/delivery/http/helpers"
	"eduevent/internal/delivery/http/middleware"
	"eduevent/internal/domain"
)

// SubmitRoomRequest is the request body for POST /hostel/requests.
type SubmitRoomRequest struct {
	RequestType     string  `json:"request_type"`
	CurrentRoomID   *string `json:"current_room_id"`
	PreferredRoomID *string `json:"preferred_room_id"`
	Description     string  `json:"description"`
}

// Validate implements Validator.
func (s SubmitRoomRequest) Validate() []string {
	var errs []string
	if s.RequestType == "" {
		errs = append(errs, "request_type is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		errs = append(errs, "description is required")
	}
	return errs
}

// SubmitComplaintRequest is the request body for POST /hostel/complaints.
type SubmitComplaintRequest struct {
	RoomID      *string `json:"room_id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// Validate implements Validator.
func (s SubmitComplaintRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Category) == "" {
		errs = append(errs, "category is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		errs = append(errs, "description is required")
	}
	return errs
}

// UpdateStatusRequest is the request body for PATCH /hostel/requests/{id} and PATCH /hostel/complaints/{id}.
type UpdateStatusRequest struct {
	Status     domain.RequestStatus `json:"status"`
	AdminNotes *string              `json:"admin_notes"`
}

// Validate implements Validator.
func (u UpdateStatusRequest) Validate() []string {
	if !u.Status.Valid() {
		return []string{"status must be one of Pending, In Progress, Resolved, Rejected"}
	}
	return nil
}

type HostelController struct {
	Logger  *slog.Logger
	Service domain.HostelService
}

func NewHostelController(logger *slog.Logger, svc domain.HostelService) *HostelController {
	return &HostelController{
		Logger:  logger,
		Service: svc,
	}
}

// ListRooms godoc
// @Summary List hostel rooms
// @Tags hostel
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains rooms"
// @Router /hostel/rooms [get]
func (c *HostelController) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.Service.ListRooms(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rooms)
}

// SubmitRequest godoc
// @Summary Submit a room change or maintenance request
// @Tags hostel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitRoomRequest true "Request (request_type: Change or Maintenance)"
// @Success 201 {object} helpers.APIResponse "data contains the request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (room)"
// @Router /hostel/requests [post]
func (c *HostelController) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SubmitRoomRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	rr := &domain.RoomRequest{
		UserID:          userID,
		RequestType:     req.RequestType,
		CurrentRoomID:   req.CurrentRoomID,
		PreferredRoomID: req.PreferredRoomID,
		Description:     req.Description,
	}
	if err := c.Service.SubmitRequest(r.Context(), rr); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, rr)
}

// ListRequests godoc
// @Summary List room requests
// @Description Super admins see every request; other callers see their own.
// @Tags hostel
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} helpers.APIResponse "data contains requests"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /hostel/requests [get]
func (c *HostelController) ListRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reqs, err := c.Service.ListRequests(r.Context(), listFilter(r, p))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reqs)
}

// UpdateRequestStatus godoc
// @Summary Update a room request's status
// @Description Resolved and Rejected set resolved_at.
// @Tags hostel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Request ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains the request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /hostel/requests/{requestID} [patch]
func (c *HostelController) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	rr, err := c.Service.UpdateRequestStatus(r.Context(), r.PathValue("requestID"), req.Status, req.AdminNotes)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rr)
}

// SubmitComplaint godoc
// @Summary Submit a hostel complaint
// @Tags hostel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitComplaintRequest true "Complaint"
// @Success 201 {object} helpers.APIResponse "data contains the complaint"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /hostel/complaints [post]
func (c *HostelController) SubmitComplaint(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SubmitComplaintRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	complaint := &domain.Complaint{
		UserID:      userID,
		RoomID:      req.RoomID,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := c.Service.SubmitComplaint(r.Context(), complaint); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, complaint)
}

// ListComplaints godoc
// @Summary List hostel complaints
// @Description Super admins see every complaint; other callers see their own.
// @Tags hostel
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} helpers.APIResponse "data contains complaints"
// @Router /hostel/complaints [get]
func (c *HostelController) ListComplaints(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	complaints, err := c.Service.ListComplaints(r.Context(), listFilter(r, p))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, complaints)
}

// UpdateComplaintStatus godoc
// @Summary Update a complaint's status
// @Tags hostel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param complaintID path string true "Complaint ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains the complaint"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /hostel/complaints/{complaintID} [patch]
func (c *HostelController) UpdateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	complaint, err := c.Service.UpdateComplaintStatus(r.Context(), r.PathValue("complaintID"), req.Status, req.AdminNotes)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, complaint)
}

// listFilter scopes non-admin callers to their own records.
func listFilter(r *http.Request, p *domain.Principal) domain.HostelFilter {
	filter := domain.HostelFilter{Status: domain.RequestStatus(r.URL.Query().Get("status"))}
	if !p.HasAnyRole(domain.RoleSuperAdmin) {
		filter.UserID = p.UserID
	}
	return filter
}
