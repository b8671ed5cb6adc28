package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vitrine/internal/service"
	"github.com/Skotchmaster/vitrine/internal/storage"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAdministrator):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrCategoryInUse):
		return http.StatusConflict
	case errors.Is(err, service.ErrUpload), errors.Is(err, service.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// upstreamReason names what failed without echoing backend error text.
func upstreamReason(err error) string {
	if errors.Is(err, service.ErrUpload) {
		if errors.Is(err, storage.ErrNotImage) {
			return service.ErrUpload.Error() + ": " + storage.ErrNotImage.Error()
		}
		return service.ErrUpload.Error() + ": could not store file"
	}
	op, _, found := strings.Cut(err.Error(), ": "+service.ErrRemote.Error())
	if !found || op == "" || strings.Contains(op, ": ") {
		return service.ErrRemote.Error()
	}
	return service.ErrRemote.Error() + ": " + op + " failed"
}

// publicMessage hides internal details of 5xx errors.
func publicMessage(err error, code int) string {
	switch code {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusBadGateway:
		return upstreamReason(err)
	case http.StatusUnauthorized:
		return "invalid email or password"
	case http.StatusForbidden:
		return service.ErrNotAdministrator.Error()
	}
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && errors.Is(err, service.ErrValidation) {
		msg = msg[i+2:]
	}
	return msg
}

// fail logs err under event and turns it into an HTTP error.
func fail(l *slog.Logger, event string, err error) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "error", err)
	}
	return echo.NewHTTPError(code, publicMessage(err, code))
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}
