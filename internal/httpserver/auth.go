package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	authmw "github.com/Skotchmaster/giftcard_vault/internal/middleware/auth"
	"github.com/Skotchmaster/giftcard_vault/internal/service"
	"github.com/Skotchmaster/giftcard_vault/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return serviceError(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user registered",
		"user":    user,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return serviceError(l.With("username", req.Username), "login_failed", err)
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

// Verify answers with {valid, user} or {valid:false, error} instead of the
// usual error body.
func (h *AuthHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify")

	raw, err := authmw.ExtractToken(c)
	if err != nil {
		l.Warn("verify_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if raw == "" {
		l.Warn("verify_failed", "status", 401, "reason", "missing token")
		return c.JSON(http.StatusUnauthorized, echo.Map{"valid": false, "error": "token required"})
	}

	user, err := h.Svc.Verify(ctx, raw)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			l.Warn("verify_failed", "status", 401, "error", err)
			return c.JSON(http.StatusUnauthorized, echo.Map{"valid": false, "error": "invalid token"})
		}
		l.Error("verify_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"valid": true,
		"user":  user,
	})
}
