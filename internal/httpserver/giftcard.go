package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	authmw "github.com/Skotchmaster/giftcard_vault/internal/middleware/auth"
	"github.com/Skotchmaster/giftcard_vault/internal/service"
	"github.com/Skotchmaster/giftcard_vault/internal/transport"
)

type GiftcardHTTP struct {
	Svc *service.GiftcardService
}

func parseNumber(c echo.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (h *GiftcardHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "giftcard.list")
	ident, _ := authmw.IdentityFrom(c)

	items, err := h.Svc.List(ctx, ident.UserID)
	if err != nil {
		return serviceError(l, "list_giftcards_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"giftcards": items})
}

func (h *GiftcardHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "giftcard.create")
	ident, _ := authmw.IdentityFrom(c)

	var req transport.CreateGiftcardRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_giftcard_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	g, err := h.Svc.Create(ctx, ident.UserID, req)
	if err != nil {
		return serviceError(l, "create_giftcard_error", err)
	}

	l.Info("create_giftcard_success", "number", g.Number)
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "giftcard created",
		"giftcard": g,
	})
}

func (h *GiftcardHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "giftcard.get")
	ident, _ := authmw.IdentityFrom(c)

	number, ok := parseNumber(c)
	if !ok {
		l.Warn("get_giftcard_error", "status", 400, "reason", "number is not an integer", "param", c.Param("number"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid giftcard number")
	}

	g, err := h.Svc.Get(ctx, ident.UserID, number)
	if err != nil {
		return serviceError(l, "get_giftcard_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"giftcard": g})
}

func (h *GiftcardHTTP) UpdateImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "giftcard.update_image")
	ident, _ := authmw.IdentityFrom(c)

	number, ok := parseNumber(c)
	if !ok {
		l.Warn("update_giftcard_error", "status", 400, "reason", "number is not an integer", "param", c.Param("number"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid giftcard number")
	}

	var req transport.UpdateGiftcardRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_giftcard_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	g, err := h.Svc.UpdateImage(ctx, ident, number, req.ImageURL)
	if err != nil {
		return serviceError(l, "update_giftcard_error", err)
	}

	l.Info("update_giftcard_success", "number", number)
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "giftcard image updated",
		"giftcard": g,
	})
}
