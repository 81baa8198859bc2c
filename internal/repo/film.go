package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
)

func (r *GormRepo) FilmsByGenre(ctx context.Context, genre string) ([]models.Film, error) {
	g := strings.ToLower(strings.TrimSpace(genre))
	var films []models.Film
	if err := r.DB.WithContext(ctx).Where("\"genre-title\" = ?", g).Find(&films).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return films, nil
}

func (r *GormRepo) Films(ctx context.Context, offset, limit int) (int64, []models.Film, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Film{}).Count(&total).Error; err != nil {
		return 0, nil, fmt.Errorf("db error: %w", err)
	}

	var films []models.Film
	if err := r.DB.WithContext(ctx).Model(&models.Film{}).
		Order("flim_id ASC").Offset(offset).Limit(limit).
		Find(&films).Error; err != nil {
		return 0, nil, fmt.Errorf("db error: %w", err)
	}
	return total, films, nil
}

// RandomFilms отдаёт случайную подборку; RANDOM() понимают и SQLite,
// и Postgres.
func (r *GormRepo) RandomFilms(ctx context.Context, count int) ([]models.Film, error) {
	if count < 1 {
		count = 4
	}
	var films []models.Film
	if err := r.DB.WithContext(ctx).Order("RANDOM()").Limit(count).Find(&films).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return films, nil
}

func (r *GormRepo) CreateFilm(ctx context.Context, film *models.Film) error {
	film.GenreTitle = strings.ToLower(film.GenreTitle)
	if err := r.DB.WithContext(ctx).Create(film).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *GormRepo) DeleteFilm(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Film{}, id)
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
