package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
)

// GetUserByLogin ищет пользователя по username ИЛИ email: одно поле
// формы логина сверяется с обеими колонками.
func (r *GormRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Role").
		Where("username = ? OR email = ?", login, login).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := checkRole(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername восстанавливает пользователя по subject токена.
func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Role").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := checkRole(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := checkRole(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Preload("Role").Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

// CreateUser регистрирует пользователя с ролью "user". Уникальность
// username и email проверяется по отдельности, чтобы вернуть разные
// причины отказа; сам insert идёт в той же транзакции, так что гонка
// между проверкой и вставкой закрыта.
func (r *GormRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	var created models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}

		var role models.Role
		if err := tx.Where("name = ?", models.RoleNameUser).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleMissing
			}
			return fmt.Errorf("db error: %w", err)
		}

		created = models.User{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			IsActive:     true,
			RoleID:       role.ID,
			Role:         role,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *GormRepo) UpdateAvatar(ctx context.Context, userID uint, avatar string) error {
	return r.updateUserColumn(ctx, userID, "avatar_base64", avatar)
}

func (r *GormRepo) UpdatePasswordHash(ctx context.Context, userID uint, passwordHash string) error {
	return r.updateUserColumn(ctx, userID, "password_hash", passwordHash)
}

func (r *GormRepo) updateUserColumn(ctx context.Context, userID uint, column string, value any) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReassignRole переводит пользователя на роль с именем roleName.
func (r *GormRepo) ReassignRole(ctx context.Context, userID uint, roleName string) (*models.User, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleMissing
			}
			return fmt.Errorf("db error: %w", err)
		}
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("role_id", role.ID)
		if res.Error != nil {
			return fmt.Errorf("db error: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, userID)
}

// checkRole — пользователь без валидной роли это не "нет роли", а
// сломанная база.
func checkRole(u *models.User) error {
	if u.Role.Kind() == models.RoleUnknown {
		return fmt.Errorf("user %d: %w", u.ID, ErrRoleMissing)
	}
	return nil
}
