package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
)

func TestCreateUser_DefaultsToUserRole(t *testing.T) {
	r := newTestRepo(t)

	user := mustCreateUser(t, r, "alice", "a@x.com")
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)
	assert.Equal(t, models.RoleUser, user.Role.Kind())
}

func TestCreateUser_DistinctConflictReasons(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	mustCreateUser(t, r, "alice", "a@x.com")

	_, err := r.CreateUser(ctx, "alice", "other@x.com", "hash")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = r.CreateUser(ctx, "bob", "a@x.com", "hash")
	require.ErrorIs(t, err, ErrEmailTaken)

	// в базе остался ровно один пользователь
	var count int64
	require.NoError(t, r.DB.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGetUserByLogin_UsernameOrEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	mustCreateUser(t, r, "alice", "a@x.com")

	byName, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	byEmail, err := r.GetUserByLogin(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byEmail.ID)

	_, err = r.GetUserByLogin(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByUsername_UnknownRoleIsIntegrityFault(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	user := mustCreateUser(t, r, "alice", "a@x.com")

	// роль вне закрытого перечисления — сломанная база, не "нет прав"
	ghost := models.Role{Name: "ghost"}
	require.NoError(t, r.DB.Create(&ghost).Error)
	require.NoError(t, r.DB.Model(&models.User{}).Where("id = ?", user.ID).
		Update("role_id", ghost.ID).Error)

	_, err := r.GetUserByUsername(ctx, "alice")
	require.ErrorIs(t, err, ErrRoleMissing)
}

func TestReassignRole(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	user := mustCreateUser(t, r, "alice", "a@x.com")

	updated, err := r.ReassignRole(ctx, user.ID, models.RoleNameAdministrator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, updated.Role.Kind())

	_, err = r.ReassignRole(ctx, user.ID, "ghost")
	require.ErrorIs(t, err, ErrRoleMissing)

	_, err = r.ReassignRole(ctx, 9999, models.RoleNameUser)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePasswordHash_NotFound(t *testing.T) {
	r := newTestRepo(t)
	err := r.UpdatePasswordHash(context.Background(), 9999, "hash")
	require.ErrorIs(t, err, ErrNotFound)
}
