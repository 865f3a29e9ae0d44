package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/giftcard_vault/internal/service"
)

// serviceError maps service sentinels onto HTTP errors. Anything unknown is
// logged with detail and hidden behind a generic 500.
func serviceError(l *slog.Logger, event string, err error) error {
	var code int
	var msg string
	switch {
	case errors.Is(err, service.ErrValidation):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, service.ErrUnauthenticated):
		code, msg = http.StatusUnauthorized, "invalid token"
	case errors.Is(err, service.ErrForbidden):
		code, msg = http.StatusForbidden, "not allowed to modify this giftcard"
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, "giftcard not found"
	case errors.Is(err, service.ErrConflict):
		code, msg = http.StatusConflict, err.Error()
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Warn(event, "status", code, "error", err)
	return echo.NewHTTPError(code, msg)
}
