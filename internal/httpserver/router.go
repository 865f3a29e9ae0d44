package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/giftcard_vault/internal/middleware/auth"
)

const readyTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AuthHandler     *AuthHTTP
	GiftcardHandler *GiftcardHTTP
	ImageHandler    *ImageHTTP
	TokenAuth       *authmw.TokenAuth
	DB              Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/verify", d.AuthHandler.Verify)

	e.GET("/giftcard-images/:name", d.ImageHandler.Get)

	requireAuth := d.TokenAuth.RequireAuth

	e.GET("/giftcards", d.GiftcardHandler.List, requireAuth)
	e.POST("/giftcards", d.GiftcardHandler.Create, requireAuth)
	e.GET("/giftcards/:number", d.GiftcardHandler.Get, requireAuth)
	e.PUT("/giftcards/:number", d.GiftcardHandler.UpdateImage, requireAuth)

	e.POST("/giftcard-images", d.ImageHandler.Save, requireAuth)
}
