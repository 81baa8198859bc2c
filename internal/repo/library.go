package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
)

// Закладки и корзина устроены одинаково: принадлежащие пользователю
// ссылки на фильмы с уникальной парой (user_id, movie_id). Добавление —
// upsert одним оператором INSERT ... ON CONFLICT DO UPDATE, так что
// параллельные добавления одной пары не плодят строк и не теряют
// обновлений.

var libraryConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
	DoUpdates: clause.AssignmentColumns([]string{"title", "author", "price"}),
}

func (r *GormRepo) ListBookmarks(ctx context.Context, userID uint) ([]models.Bookmark, error) {
	var items []models.Bookmark
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *GormRepo) UpsertBookmark(ctx context.Context, item *models.Bookmark) error {
	if err := r.DB.WithContext(ctx).Clauses(libraryConflict).Create(item).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	// при конфликте Create не заполняет ID существующей строки
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", item.UserID, item.MovieID).
		First(item).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *GormRepo) DeleteBookmark(ctx context.Context, userID uint, movieID string) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) ListCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *GormRepo) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	if err := r.DB.WithContext(ctx).Clauses(libraryConflict).Create(item).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", item.UserID, item.MovieID).
		First(item).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, userID uint, movieID string) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
