package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/config"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/handlers"
	authmw "github.com/DeutscheWaffel/Videoteka-UP/internal/middleware/auth"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/repo"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/tokens"
	httpserver "github.com/DeutscheWaffel/Videoteka-UP/internal/transport/http"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	t *testing.T
	e *echo.Echo
	r *repo.GormRepo
}

// newTestEnv поднимает приложение целиком (маршруты + middleware)
// поверх временной SQLite-базы; Kafka и Elasticsearch не подключены.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)"
	db, err := config.InitDB(dsn)
	require.NoError(t, err)

	r := &repo.GormRepo{DB: db}
	guard := &authmw.Guard{Repo: r, JWTSecret: testSecret}

	deps := httpserver.Deps{
		Guard: guard,
		AuthHandler: &handlers.AuthHandler{
			Repo:      r,
			JWTSecret: testSecret,
			TokenTTL:  tokens.DefaultTTL,
		},
		BookmarkHandler: &handlers.BookmarkHandler{Repo: r},
		CartHandler:     &handlers.CartHandler{Repo: r},
		FilmHandler:     &handlers.FilmHandler{Repo: r},
		AdminHandler:    &handlers.AdminHandler{Repo: r},
	}

	e := echo.New()
	httpserver.Register(e, &deps)

	return &testEnv{t: t, e: e, r: r}
}

func (env *testEnv) doJSON(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) register(username, email, password string) {
	env.t.Helper()
	rec := env.doJSON(http.MethodPost, "/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(env.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (env *testEnv) login(username, password string) string {
	env.t.Helper()
	rec := env.doJSON(http.MethodPost, "/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(env.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(env.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.t, resp.AccessToken)
	require.Equal(env.t, "bearer", resp.TokenType)
	return resp.AccessToken
}

// makeAdmin переводит уже зарегистрированного пользователя на роль
// administrator напрямую в базе.
func (env *testEnv) makeAdmin(username string) {
	env.t.Helper()
	var role models.Role
	require.NoError(env.t, env.r.DB.Where("name = ?", models.RoleNameAdministrator).First(&role).Error)
	res := env.r.DB.Model(&models.User{}).Where("username = ?", username).Update("role_id", role.ID)
	require.NoError(env.t, res.Error)
	require.EqualValues(env.t, 1, res.RowsAffected)
}
