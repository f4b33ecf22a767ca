package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eduevent/internal/delivery/http/helpers"
	"eduevent/internal/domain"
)

// CreateVolunteerRequest is the request body for POST /volunteers.
type CreateVolunteerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate implements Validator.
func (c CreateVolunteerRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// SetAssignmentRequest is the request body for PUT /volunteers/{volunteerID}/events/{eventID}.
type SetAssignmentRequest struct {
	Assigned *bool `json:"assigned"`
}

// Validate implements Validator.
func (s SetAssignmentRequest) Validate() []string {
	if s.Assigned == nil {
		return []string{"assigned is required"}
	}
	return nil
}

// TrackAttendanceRequest is the request body for PUT /volunteers/{volunteerID}/events/{eventID}/attendance.
type TrackAttendanceRequest struct {
	Attended *bool `json:"attended"`
}

// Validate implements Validator.
func (t TrackAttendanceRequest) Validate() []string {
	if t.Attended == nil {
		return []string{"attended is required"}
	}
	return nil
}

// AssignTaskRequest is the request body for PUT /volunteers/{volunteerID}/events/{eventID}/task.
type AssignTaskRequest struct {
	Task string `json:"task"`
}

// Validate implements Validator.
func (a AssignTaskRequest) Validate() []string {
	if strings.TrimSpace(a.Task) == "" {
		return []string{"task is required"}
	}
	return nil
}

type VolunteerController struct {
	Logger  *slog.Logger
	Service domain.VolunteerService
}

func NewVolunteerController(logger *slog.Logger, svc domain.VolunteerService) *VolunteerController {
	return &VolunteerController{
		Logger:  logger,
		Service: svc,
	}
}

// ListVolunteers godoc
// @Summary List volunteers
// @Tags volunteers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains volunteers"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /volunteers [get]
func (c *VolunteerController) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	vols, err := c.Service.ListVolunteers(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, vols)
}

// GetVolunteer godoc
// @Summary Get a volunteer
// @Tags volunteers
// @Produce json
// @Security BearerAuth
// @Param volunteerID path string true "Volunteer ID"
// @Success 200 {object} helpers.APIResponse "data contains the volunteer"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /volunteers/{volunteerID} [get]
func (c *VolunteerController) GetVolunteer(w http.ResponseWriter, r *http.Request) {
	v, err := c.Service.GetVolunteer(r.Context(), r.PathValue("volunteerID"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, v)
}

// CreateVolunteer godoc
// @Summary Create a volunteer
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateVolunteerRequest true "Volunteer data"
// @Success 201 {object} helpers.APIResponse "data contains the volunteer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /volunteers [post]
func (c *VolunteerController) CreateVolunteer(w http.ResponseWriter, r *http.Request) {
	var req CreateVolunteerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	v, err := c.Service.CreateVolunteer(r.Context(), req.Name, req.Email)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, v)
}

// SetAssignment godoc
// @Summary Assign or unassign a volunteer to an event
// @Description Unassigning also drops the volunteer's attendance and task for that event.
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param volunteerID path string true "Volunteer ID"
// @Param eventID path string true "Event ID"
// @Param body body SetAssignmentRequest true "Assignment"
// @Success 200 {object} helpers.APIResponse "data contains the volunteer"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /volunteers/{volunteerID}/events/{eventID} [put]
func (c *VolunteerController) SetAssignment(w http.ResponseWriter, r *http.Request) {
	var req SetAssignmentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	v, err := c.Service.SetAssignment(r.Context(), r.PathValue("volunteerID"), r.PathValue("eventID"), *req.Assigned)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, v)
}

// TrackAttendance godoc
// @Summary Record a volunteer's attendance at an event
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param volunteerID path string true "Volunteer ID"
// @Param eventID path string true "Event ID"
// @Param body body TrackAttendanceRequest true "Attendance"
// @Success 200 {object} helpers.APIResponse "data contains the volunteer"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not assigned)"
// @Router /volunteers/{volunteerID}/events/{eventID}/attendance [put]
func (c *VolunteerController) TrackAttendance(w http.ResponseWriter, r *http.Request) {
	var req TrackAttendanceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	v, err := c.Service.TrackAttendance(r.Context(), r.PathValue("volunteerID"), r.PathValue("eventID"), *req.Attended)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, v)
}

// AssignTask godoc
// @Summary Give a volunteer a task at an event
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param volunteerID path string true "Volunteer ID"
// @Param eventID path string true "Event ID"
// @Param body body AssignTaskRequest true "Task"
// @Success 200 {object} helpers.APIResponse "data contains the volunteer"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not assigned)"
// @Router /volunteers/{volunteerID}/events/{eventID}/task [put]
func (c *VolunteerController) AssignTask(w http.ResponseWriter, r *http.Request) {
	var req AssignTaskRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	v, err := c.Service.AssignTask(r.Context(), r.PathValue("volunteerID"), r.PathValue("eventID"), req.Task)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, v)
}
