package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/pkg/utils"
)

// AuthJWTMiddleware accepts a bearer token or the session cookie, validates
// it and loads the user into both the echo context and the request context.
func (mw *MiddlewareManager) AuthJWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := ""

		bearerHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if bearerHeader != "" {
			headerParts := strings.Split(bearerHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "Bearer") {
				mw.logger.Warnf("auth middleware: malformed authorization header, RequestID: %s", utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			tokenString = headerParts[1]
		} else {
			cookie, err := c.Cookie(mw.cfg.Cookie.Name)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			tokenString = cookie.Value
		}

		if err := mw.validateJWTToken(c, tokenString); err != nil {
			mw.logger.Warnf("auth middleware: invalid token, RequestID: %s, error: %v", utils.GetRequestID(c), err)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		return next(c)
	}
}

func (mw *MiddlewareManager) validateJWTToken(c echo.Context, tokenString string) error {
	claims, err := utils.ValidateToken(tokenString, mw.cfg.Server.JwtSecretKey)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return err
	}

	user, err := mw.authUC.GetByID(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	c.Set("user", user)
	ctx := context.WithValue(c.Request().Context(), utils.UserCtxKey{}, user)
	c.SetRequest(c.Request().WithContext(ctx))
	return nil
}

func (mw *MiddlewareManager) OwnerOrAdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*models.User)
			if !ok {
				mw.logger.Errorf("OwnerOrAdminMiddleware: invalid user ctx, RequestID: %s", utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			if user.Role == models.AdminRole {
				return next(c)
			}

			if user.UserID.String() != c.Param("user_id") {
				mw.logger.Warnf("OwnerOrAdminMiddleware: user %s denied access, RequestID: %s", user.UserID, utils.GetRequestID(c))
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
			}
			return next(c)
		}
	}
}

func (mw *MiddlewareManager) RoleBasedAuthMiddleware(roles []models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*models.User)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			for _, role := range roles {
				if role == user.Role {
					return next(c)
				}
			}
			mw.logger.Warnf("RoleBasedAuthMiddleware: user %s lacks required role, RequestID: %s", user.UserID, utils.GetRequestID(c))
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
		}
	}
}
