package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/es"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/logging"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/mykafka"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/repo"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/service/search"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/util"
)

type FilmHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (h *FilmHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "film_events", fmt.Sprint(event["filmID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *FilmHandler) ByGenre(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "films_by_genre")

	films, err := h.Repo.FilmsByGenre(ctx, c.Param("genre"))
	if err != nil {
		l.Error("films_by_genre_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, films)
}

func (h *FilmHandler) All(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "films_all")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, films, err := h.Repo.Films(ctx, offset, limit)
	if err != nil {
		l.Error("films_all_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": films,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *FilmHandler) Random(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "films_random")

	count := parseIntDefault(c.Param("count"), 4)
	if count > 100 {
		count = 100
	}
	films, err := h.Repo.RandomFilms(ctx, count)
	if err != nil {
		l.Error("films_random_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, films)
}

// Create доступен только администраторам (AdminOnly на маршруте).
func (h *FilmHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "films_create")

	var req struct {
		Title       string  `json:"title"`
		TitleRu     *string `json:"title_ru"`
		Author      *string `json:"author"`
		Price       *string `json:"price"`
		GenreTitle  string  `json:"genre_title"`
		MovieBase64 *string `json:"movie_base64"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("films_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" || req.GenreTitle == "" {
		l.Warn("films_create_failed", "status", 400, "reason", "missing_fields")
		return echo.NewHTTPError(http.StatusBadRequest, "Укажите title и genre_title")
	}

	film := models.Film{
		Title:       req.Title,
		TitleRu:     req.TitleRu,
		Author:      req.Author,
		Price:       req.Price,
		GenreTitle:  req.GenreTitle,
		MovieBase64: req.MovieBase64,
	}
	if err := h.Repo.CreateFilm(ctx, &film); err != nil {
		l.Error("films_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Не удалось создать фильм")
	}

	if h.ES != nil {
		if err := search.IndexFilm(ctx, h.ES, es.FilmIndex, &film); err != nil {
			l.Error("film_index_failed", "film_id", film.FilmID, "error", err)
		}
	}

	h.publish(c, map[string]any{
		"type":   "film_created",
		"filmID": film.FilmID,
		"title":  film.Title,
	})

	l.Info("film_created", "film_id", film.FilmID)
	return c.JSON(http.StatusCreated, film)
}

func (h *FilmHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "films_delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("films_delete_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Repo.DeleteFilm(ctx, uint(id)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("films_delete_failed", "status", 404, "film_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Фильм не найден")
		}
		l.Error("films_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Не удалось удалить фильм")
	}

	if h.ES != nil {
		if err := search.RemoveFilm(ctx, h.ES, es.FilmIndex, uint(id)); err != nil {
			l.Error("film_unindex_failed", "film_id", id, "error", err)
		}
	}

	h.publish(c, map[string]any{
		"type":   "film_deleted",
		"filmID": id,
	})

	l.Info("film_deleted", "film_id", id)
	return c.NoContent(http.StatusNoContent)
}
