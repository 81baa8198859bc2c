package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/logging"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
)

// AdminOnly вешается после RequireUser: личность уже установлена,
// вопрос только в правах. Отказ здесь — 403, никогда не 401.
func (g *Guard) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "admin_only")

		user := CurrentUser(c)
		if user == nil {
			l.Error("admin_check_failed", "status", 500, "reason", "no_user_in_context")
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		if user.Role.Kind() != models.RoleAdministrator {
			l.Warn("admin_check_failed", "status", 403, "user_id", user.ID)
			return echo.NewHTTPError(http.StatusForbidden, "Доступ запрещен. Требуются права администратора")
		}
		return next(c)
	}
}
