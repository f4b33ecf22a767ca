package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error codes the repositories translate.
const (
	pqUniqueViolation = "23505"
	pqInvalidTextRepr = "22P02"
)

func pqCode(err error) string {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return string(perr.Code)
	}
	return ""
}

// isInvalidID reports whether err is Postgres rejecting a malformed UUID, which callers treat as not found.
func isInvalidID(err error) bool {
	return pqCode(err) == pqInvalidTextRepr
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}
