package controllers

import (
	"log/slog"
	"net/http"

	h "eduevent/internal/delivery/http/helpers"
	"eduevent/internal/domain"
)

type FinanceController struct {
	Logger  *slog.Logger
	Service domain.FinanceService
}

func NewFinanceController(logger *slog.Logger, svc domain.FinanceService) *FinanceController {
	return &FinanceController{
		Logger:  logger,
		Service: svc,
	}
}

// Report godoc
// @Summary Finance report
// @Description Totals of estimated cost and sponsorship across all events, with per-event details. Missing amounts count as 0.
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the FinancialSummary"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /finance/report [get]
func (c *FinanceController) Report(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Service.Report(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, summary)
}
