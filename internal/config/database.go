package config

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
)

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// InitDB открывает БД по DATABASE_URL (postgres:// либо путь к SQLite),
// прогоняет миграцию и сеет обязательные роли. Повторный запуск против
// уже инициализированной базы безопасен: AutoMigrate только добавляет
// недостающие таблицы и колонки, FirstOrCreate не плодит дубликатов.
func InitDB(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(SQLitePath(databaseURL))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("получение sql.DB: %w", err)
	}
	configurePool(sqlDB)

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Bookmark{},
		&models.CartItem{},
		&models.Film{},
	); err != nil {
		return nil, fmt.Errorf("не удалось выполнить миграцию: %w", err)
	}

	if err := seedRoles(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedRoles гарантирует существование ролей user и administrator до
// появления первого пользователя.
func seedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{Name: models.RoleNameUser, Description: strPtr("Обычный пользователь")},
		{Name: models.RoleNameAdministrator, Description: strPtr("Администратор системы")},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, r := range roles {
			role := r
			if err := tx.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("не удалось создать роль %q: %w", role.Name, err)
			}
		}
		return nil
	})
}

func strPtr(s string) *string { return &s }
