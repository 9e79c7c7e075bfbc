package utils

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/models"
)

type UserCtxKey struct{}

func GetUserFromCtx(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(UserCtxKey{}).(*models.User)
	if !ok {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func GetIPAddress(c echo.Context) string {
	return c.Request().RemoteAddr
}

func CreateSessionCookie(cfg *config.Config, token string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.Cookie.MaxAge,
		Secure:   cfg.Cookie.Secure,
		HttpOnly: cfg.Cookie.HTTPOnly,
	}
}
