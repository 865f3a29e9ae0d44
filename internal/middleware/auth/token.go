package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/giftcard_vault/internal/identity"
	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	"github.com/Skotchmaster/giftcard_vault/internal/service"
)

const identityKey = "identity"

// maxTokenBody caps how much of a JSON body is read while looking for a token.
const maxTokenBody = 1 << 20

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (identity.Identity, error)
}

type TokenAuth struct {
	Auth Authenticator
}

func NewTokenAuth(a Authenticator) *TokenAuth {
	return &TokenAuth{Auth: a}
}

// RequireAuth resolves the caller and stores the identity on the echo context.
func (m *TokenAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		raw, err := ExtractToken(c)
		if err != nil {
			l.Warn("auth_failed", "status", 400, "reason", "unreadable body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		if raw == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}

		ident, err := m.Auth.Authenticate(ctx, raw)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				l.Warn("auth_failed", "status", 401, "reason", "invalid token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			l.Error("auth_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		c.Set(identityKey, ident)
		req := c.Request()
		c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logging.FromContext(ctx).With("user_id", ident.UserID))))
		return next(c)
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c echo.Context) (identity.Identity, bool) {
	ident, ok := c.Get(identityKey).(identity.Identity)
	return ident, ok
}

// ExtractToken looks at the Authorization bearer header, then the token query
// parameter, then the token field of a JSON body. The body is put back so
// handlers can still bind it.
func ExtractToken(c echo.Context) (string, error) {
	req := c.Request()

	if h := req.Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if tok = strings.TrimSpace(tok); tok != "" {
				return tok, nil
			}
		}
	}

	if tok := c.QueryParam("token"); tok != "" {
		return tok, nil
	}

	if req.Body == nil || req.Body == http.NoBody {
		return "", nil
	}
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxTokenBody))
	if err != nil {
		return "", err
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Token string `json:"token"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return "", nil
	}
	return payload.Token, nil
}
