package http

import (
	"github.com/labstack/echo/v4"

	"github.com/vidforge/vidforge/internal/auth"
	"github.com/vidforge/vidforge/internal/middleware"
)

func MapAuthRoutes(authGroup *echo.Group, h auth.Handler, mw *middleware.MiddlewareManager) {
	authGroup.POST("/register", h.Register())
	authGroup.POST("/login", h.Login())
	authGroup.POST("/logout", h.Logout())
	authGroup.Use(mw.AuthJWTMiddleware)
	authGroup.GET("/me", h.GetMe())
	authGroup.POST("/api-key", h.GenerateApiKey())
	authGroup.GET("/user/storage/stats", h.GetUserStorageStats())
	authGroup.GET("/:user_id", h.GetUserByID(), mw.OwnerOrAdminMiddleware())
	authGroup.PUT("/:user_id", h.Update(), mw.OwnerOrAdminMiddleware())
}
