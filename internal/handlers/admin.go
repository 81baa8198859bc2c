package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/logging"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/mykafka"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/repo"
)

// AdminHandler — операции над чужими учётками, все за AdminOnly.
type AdminHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_list_users")

	users, err := h.Repo.ListUsers(ctx)
	if err != nil {
		l.Error("list_users_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) ReassignRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_reassign_role")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("reassign_role_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Repo.ReassignRole(ctx, uint(id), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrRoleMissing):
			l.Warn("reassign_role_failed", "status", 400, "reason", "unknown_role", "role", req.Role)
			return echo.NewHTTPError(http.StatusBadRequest, "Неизвестная роль")
		case errors.Is(err, repo.ErrNotFound):
			l.Warn("reassign_role_failed", "status", 404, "user_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Пользователь не найден")
		default:
			l.Error("reassign_role_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	l.Info("role_reassigned", "user_id", user.ID, "role", user.Role.Name)
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) UpdateUserAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_update_avatar")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		AvatarBase64 string `json:"avatar_base64"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("admin_avatar_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.AvatarBase64 == "" || len(req.AvatarBase64) > avatarMaxLen {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректный размер изображения")
	}

	if err := h.Repo.UpdateAvatar(ctx, uint(id), req.AvatarBase64); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("admin_avatar_failed", "status", 404, "user_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Пользователь не найден")
		}
		l.Error("admin_avatar_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user, err := h.Repo.GetUserByID(ctx, uint(id))
	if err != nil {
		l.Error("admin_avatar_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("admin_avatar_updated", "user_id", id)
	return c.JSON(http.StatusOK, user)
}
