package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/tokens"
)

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/v1/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.Equal(t, models.RoleNameUser, user.Role.Name)

	// хеш пароля не должен утекать в ответ
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "pbkdf2")
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"short username", "ab", "a@b.com", "secret123"},
		{"bad email", "alice", "not-an-email", "secret123"},
		{"short password", "alice", "a@b.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.doJSON(http.MethodPost, "/api/v1/register", map[string]string{
				"username": tc.username,
				"email":    tc.email,
				"password": tc.password,
			}, "")
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		})
	}
}

func TestRegister_Conflicts(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice", "alice@example.com", "secret123")

	rec := env.doJSON(http.MethodPost, "/api/v1/register", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Пользователь с таким именем уже существует", errMessage(t, rec))

	rec = env.doJSON(http.MethodPost, "/api/v1/register", map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Пользователь с таким email уже существует", errMessage(t, rec))
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice", "alice@example.com", "secret123")

	env.login("alice", "secret123")
	env.login("alice@example.com", "secret123")
}

// неизвестный логин и неверный пароль должны быть неразличимы снаружи
func TestLogin_FailuresIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice", "alice@example.com", "secret123")

	unknown := env.doJSON(http.MethodPost, "/api/v1/login", map[string]string{
		"username": "nobody",
		"password": "secret123",
	}, "")
	wrongPass := env.doJSON(http.MethodPost, "/api/v1/login", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	}, "")

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, unknown.Body.String(), wrongPass.Body.String())
	assert.Equal(t, "Bearer", unknown.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Bearer", wrongPass.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Неверное имя пользователя или пароль", errMessage(t, unknown))
}

func TestMe_RequiresValidToken(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice", "alice@example.com", "secret123")
	token := env.login("alice", "secret123")

	rec := env.doJSON(http.MethodGet, "/api/v1/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
}

func TestMe_RejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice", "alice@example.com", "secret123")

	expired, err := tokens.NewAccessToken(testSecret, "alice", -time.Minute)
	require.NoError(t, err)
	foreign, err := tokens.NewAccessToken([]byte("other-secret"), "alice", time.Minute)
	require.NoError(t, err)
	ghost, err := tokens.NewAccessToken(testSecret, "nobody", time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not.a.jwt"},
		{"expired token", expired},
		{"wrong secret", foreign},
		{"unknown subject", ghost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.doJSON(http.MethodGet, "/api/v1/me", nil, tc.token)
			require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			assert.Equal(t, "Не удалось проверить учетные данные", errMessage(t, rec))
		})
	}
}

func TestMe_InactiveUser(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice", "alice@example.com", "secret123")
	token := env.login("alice", "secret123")

	res := env.r.DB.Model(&models.User{}).
		Where("username = ?", "alice").Update("is_active", false)
	require.NoError(t, res.Error)

	rec := env.doJSON(http.MethodGet, "/api/v1/me", nil, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Неактивный пользователь", errMessage(t, rec))
}
