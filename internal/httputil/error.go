package httputil

import (
	"errors"
	"net/http"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a league error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var validationErr *league.ValidationError
	var notFoundErr *league.NotFoundError
	var permissionErr *league.PermissionError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr),
		errors.Is(err, league.ErrMatchFinalized),
		errors.Is(err, league.ErrAlreadyFinalized):
		return http.StatusBadRequest
	case errors.As(err, &permissionErr):
		return http.StatusForbidden
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.Is(err, league.ErrStoreBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message is the text shown to the user for err. Unexpected errors are not
// leaked.
func Message(err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		return "Internal Server Error"
	}
	return err.Error()
}

// Error reports err as plain text with the status StatusFor picks.
func Error(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := StatusFor(err)
	logError(r, status, msg, err)
	http.Error(w, Message(err), status)
}

func InternalServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logError(r, http.StatusInternalServerError, msg, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logError(r, http.StatusBadRequest, msg, err)
	http.Error(w, msg, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logError(r, http.StatusNotFound, msg, err)
	http.Error(w, msg, http.StatusNotFound)
}

func logError(r *http.Request, status int, msg string, err error) {
	logger := log.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Int("status", status).Str("path", r.URL.Path).Msg(msg)
}
