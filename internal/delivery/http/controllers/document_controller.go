package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eduevent/internal/delivery/http/helpers"
	"eduevent/internal/delivery/http/middleware"
	"eduevent/internal/domain"
)

// multipartOverhead leaves room for form boundaries and fields around the file part.
const multipartOverhead = 1 << 20

type DocumentController struct {
	Logger  *slog.Logger
	Service domain.DocumentService
}

func NewDocumentController(logger *slog.Logger, svc domain.DocumentService) *DocumentController {
	return &DocumentController{
		Logger:  logger,
		Service: svc,
	}
}

// Upload godoc
// @Summary Upload a supporting document
// @Description Stores the file and returns a reference to pass as document_ref when registering. Max 10 MiB.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document"
// @Param event_id formData string false "Event the document belongs to"
// @Success 201 {object} helpers.APIResponse "data contains the document reference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /documents [post]
func (c *DocumentController) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxDocumentSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteJSONError(w, http.StatusRequestEntityTooLarge, h.ErrCodeBadRequest, "file too large")
			return
		}
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	var eventID *string
	if v := r.FormValue("event_id"); v != "" {
		eventID = &v
	}
	doc, err := c.Service.Upload(r.Context(), userID, eventID, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, doc)
}
