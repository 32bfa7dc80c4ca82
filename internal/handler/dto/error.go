package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mtlprog/ampserve/internal/domain"
)

// MapDomainError maps domain errors to an HTTP status and a plain-text message.
// Unmapped errors become 500 with a generic message; callers that want to
// expose the underlying error add it themselves.
func MapDomainError(err error) (status int, message string) {
	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		return http.StatusBadRequest, "missing required query parameter " + trimSentinel(err, domain.ErrMissingParameter)
	case errors.Is(err, domain.ErrSiteNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrEmptySiteList), errors.Is(err, domain.ErrRender):
		return http.StatusInternalServerError, "internal server error"
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "internal server error"
	}
}

// trimSentinel returns the detail a wrapped sentinel was annotated with,
// e.g. "?jackpot=" for "missing required parameter: ?jackpot=".
func trimSentinel(err, sentinel error) string {
	detail, found := strings.CutPrefix(err.Error(), sentinel.Error()+": ")
	if !found {
		return ""
	}
	return detail
}
