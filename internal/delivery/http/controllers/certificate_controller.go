package controllers

import (
	"log/slog"
	"net/http"

	h "eduevent/internal/delivery/http/helpers"
	"eduevent/internal/delivery/http/middleware"
	"eduevent/internal/domain"
)

type CertificateController struct {
	Logger  *slog.Logger
	Service domain.CertificateService
}

func NewCertificateController(logger *slog.Logger, svc domain.CertificateService) *CertificateController {
	return &CertificateController{
		Logger:  logger,
		Service: svc,
	}
}

// GetCertificate godoc
// @Summary Get my participation certificate
// @Description Renders a plain-text certificate for the caller's registration. With Accept: text/plain the certificate text is returned as is.
// @Tags certificates
// @Produce json
// @Produce plain
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the certificate"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/certificate [get]
func (c *CertificateController) GetCertificate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	cert, err := c.Service.Generate(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if r.Header.Get("Accept") == "text/plain" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="certificate.txt"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cert.Text))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, cert)
}
