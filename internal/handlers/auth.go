package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/hash"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/logging"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/mykafka"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/repo"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/tokens"
)

type AuthHandler struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Producer  *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if msg := validateRegistration(req.Username, req.Email, req.Password); msg != "" {
		l.Warn("register_failed", "status", 422, "reason", "validation")
		return echo.NewHTTPError(http.StatusUnprocessableEntity, msg)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user, err := h.Repo.CreateUser(ctx, req.Username, req.Email, pwHash)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrUsernameTaken):
			l.Warn("register_failed", "status", 400, "reason", "username_taken")
			return echo.NewHTTPError(http.StatusBadRequest, "Пользователь с таким именем уже существует")
		case errors.Is(err, repo.ErrEmailTaken):
			l.Warn("register_failed", "status", 400, "reason", "email_taken")
			return echo.NewHTTPError(http.StatusBadRequest, "Пользователь с таким email уже существует")
		default:
			l.Error("register_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	h.publish(c, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("register_success", "status", 201, "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	// "не найден" и "пароль не подошёл" наружу неразличимы
	user, err := h.Repo.GetUserByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			return loginError(c)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return loginError(c)
	}

	accessToken, err := tokens.NewAccessToken(h.JWTSecret, user.Username, h.TokenTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}

	h.publish(c, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("login_successful", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

func loginError(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "Неверное имя пользователя или пароль")
}
