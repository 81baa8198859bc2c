package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/logging"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/repo"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/tokens"
)

// Guard восстанавливает пользователя из bearer-токена на каждом
// запросе. Состояния сессии на сервере нет: токен — единственный
// источник identity.
type Guard struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

const userContextKey = "current_user"

// RequireUser пускает дальше только запросы с валидным access-токеном
// живого активного пользователя. Все причины отказа по токену
// (нет заголовка, битый токен, чужая подпись, истёк, пользователь
// исчез) снаружи неразличимы.
func (g *Guard) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_user")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing_bearer")
			return credentialsError(c)
		}

		username, err := tokens.SubjectFromToken(raw, g.JWTSecret)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid_token")
			return credentialsError(c)
		}

		user, err := g.Repo.GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				l.Warn("auth_failed", "status", 401, "reason", "unknown_subject")
				return credentialsError(c)
			}
			l.Error("auth_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		if !user.IsActive {
			l.Warn("auth_failed", "status", 400, "reason", "inactive_user", "user_id", user.ID)
			return echo.NewHTTPError(http.StatusBadRequest, "Неактивный пользователь")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser достаёт аутентифицированного пользователя, положенного
// в контекст RequireUser.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}

// credentialsError — канонический 401 с challenge-заголовком,
// одинаковый для любой причины.
func credentialsError(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "Не удалось проверить учетные данные")
}
