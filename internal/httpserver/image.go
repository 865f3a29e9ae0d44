package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/giftcard_vault/internal/images"
	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	"github.com/Skotchmaster/giftcard_vault/internal/transport"
)

type ImageHTTP struct {
	Store images.Store
}

func (h *ImageHTTP) Save(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.save")

	var req transport.SaveImageRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("save_image_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("save_image_error", "status", 400, "reason", "missing fields", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "imageData and filename are required")
	}

	p, err := images.Save(ctx, h.Store, req.Filename, req.ImageData)
	if err != nil {
		if errors.Is(err, images.ErrInvalidName) || errors.Is(err, images.ErrInvalidData) {
			l.Warn("save_image_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("save_image_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("save_image_success", "path", p)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "image saved",
		"path":    p,
	})
}

func (h *ImageHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.get")

	data, contentType, err := images.Load(ctx, h.Store, c.Param("name"))
	if err != nil {
		if errors.Is(err, images.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		l.Error("get_image_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(http.StatusOK, contentType, data)
}
