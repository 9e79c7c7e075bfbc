package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vidforge/vidforge/internal/auth"
	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/pkg/logger"
	"github.com/vidforge/vidforge/pkg/utils"
)

type authHandler struct {
	cfg    *config.Config
	authUC auth.UseCase
	logger logger.Logger
}

func NewAuthHandler(cfg *config.Config, authUC auth.UseCase, log logger.Logger) auth.Handler {
	return &authHandler{
		cfg:    cfg,
		authUC: authUC,
		logger: log,
	}
}

func (h *authHandler) Register() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := &models.User{}
		if err := c.Bind(user); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}

		createdUser, err := h.authUC.Register(c.Request().Context(), user)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		c.SetCookie(utils.CreateSessionCookie(h.cfg, createdUser.Token))
		return c.JSON(http.StatusCreated, createdUser)
	}
}

func (h *authHandler) Login() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := &models.User{}
		if err := c.Bind(user); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}

		loginUser, err := h.authUC.Login(c.Request().Context(), user)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		c.SetCookie(utils.CreateSessionCookie(h.cfg, loginUser.Token))
		return c.JSON(http.StatusOK, loginUser)
	}
}

func (h *authHandler) Logout() echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie := utils.CreateSessionCookie(h.cfg, "")
		cookie.MaxAge = -1
		c.SetCookie(cookie)
		return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
	}
}

func (h *authHandler) GetMe() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*models.User)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized access"})
		}
		return c.JSON(http.StatusOK, user)
	}
}

func (h *authHandler) GetUserByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := uuid.Parse(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user id"})
		}
		user, err := h.authUC.GetByID(c.Request().Context(), userID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, user)
	}
}

func (h *authHandler) Update() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := uuid.Parse(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user id"})
		}
		user := &models.User{}
		if err = c.Bind(user); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		user.UserID = userID

		updatedUser, err := h.authUC.Update(c.Request().Context(), user)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, updatedUser)
	}
}

func (h *authHandler) GenerateApiKey() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*models.User)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized access"})
		}
		apiKey, err := h.authUC.GenerateApiKey(c.Request().Context(), user.UserID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"apikey": apiKey})
	}
}

func (h *authHandler) GetUserStorageStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := h.authUC.GetUserStorageStats(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, stats)
	}
}
