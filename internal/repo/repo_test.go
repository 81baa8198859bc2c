package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/config"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/hash"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := config.InitDB(dsn)
	require.NoError(t, err)
	return db
}

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: newTestDB(t)}
}

func mustCreateUser(t *testing.T, r *GormRepo, username, email string) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	user, err := r.CreateUser(context.Background(), username, email, pwHash)
	require.NoError(t, err)
	return user
}

func TestInitDB_Idempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")

	db, err := config.InitDB(dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// повторная инициализация той же базы не должна ничего ломать
	db, err = config.InitDB(dsn)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestSeededRoles(t *testing.T) {
	db := newTestDB(t)

	var userRole, adminRole models.Role
	require.NoError(t, db.Where("name = ?", models.RoleNameUser).First(&userRole).Error)
	require.NoError(t, db.Where("name = ?", models.RoleNameAdministrator).First(&adminRole).Error)
	require.Equal(t, models.RoleUser, userRole.Kind())
	require.Equal(t, models.RoleAdministrator, adminRole.Kind())
}
