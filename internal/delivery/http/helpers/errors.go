package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"eduevent/internal/domain"
)

// conflictErrors are business-rule rejections reported as 409.
var conflictErrors = []error{
	domain.ErrEventFull,
	domain.ErrDuplicateRegistration,
	domain.ErrAlreadyCheckedIn,
	domain.ErrDuplicateEmail,
	domain.ErrVolunteerNotAssigned,
	domain.ErrTokenAlreadyValidated,
	domain.ErrTokenNotValidToday,
	domain.ErrItemNotOnMenu,
	domain.ErrNoMenuForDate,
}

// WriteServiceError maps a service error onto the API error envelope.
// Unknown errors are logged and reported as 500 without exposing their text.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case isConflict(err):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

func isConflict(err error) bool {
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
