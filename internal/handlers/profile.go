package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/hash"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/logging"
	authmw "github.com/DeutscheWaffel/Videoteka-UP/internal/middleware/auth"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/repo"
)

// максимальный размер avatar_base64 в символах
const avatarMaxLen = 5_000_000

func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, authmw.CurrentUser(c))
}

func (h *AuthHandler) UpdateAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_avatar")
	user := authmw.CurrentUser(c)

	var req struct {
		AvatarBase64 string `json:"avatar_base64"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("avatar_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.AvatarBase64 == "" || len(req.AvatarBase64) > avatarMaxLen {
		l.Warn("avatar_failed", "status", 400, "reason", "bad_size")
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректный размер изображения")
	}

	if err := h.Repo.UpdateAvatar(ctx, user.ID, req.AvatarBase64); err != nil {
		l.Error("avatar_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	updated, err := h.Repo.GetUserByID(ctx, user.ID)
	if err != nil {
		l.Error("avatar_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("avatar_updated", "user_id", user.ID)
	return c.JSON(http.StatusOK, updated)
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "change_password")
	user := authmw.CurrentUser(c)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		l.Warn("password_failed", "status", 400, "reason", "wrong_current", "user_id", user.ID)
		return echo.NewHTTPError(http.StatusBadRequest, "Текущий пароль неверен")
	}
	if utf8.RuneCountInString(req.NewPassword) < passwordMinLen {
		l.Warn("password_failed", "status", 400, "reason", "too_short")
		return echo.NewHTTPError(http.StatusBadRequest, "Новый пароль слишком короткий")
	}
	if utf8.RuneCountInString(req.NewPassword) > passwordMaxLen {
		l.Warn("password_failed", "status", 400, "reason", "too_long")
		return echo.NewHTTPError(http.StatusBadRequest, "Пароль должен быть не длиннее 100 символов")
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		l.Error("password_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := h.Repo.UpdatePasswordHash(ctx, user.ID, pwHash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("password_failed", "status", 404, "user_id", user.ID)
			return echo.NewHTTPError(http.StatusNotFound, "Пользователь не найден")
		}
		l.Error("password_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, fmt.Sprint(user.ID), map[string]any{
		"type":   "password_changed",
		"userID": user.ID,
	})

	l.Info("password_changed", "user_id", user.ID)
	return c.NoContent(http.StatusNoContent)
}
