package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/logging"
	authmw "github.com/DeutscheWaffel/Videoteka-UP/internal/middleware/auth"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/mykafka"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/repo"
)

type CartHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *CartHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_list")
	user := authmw.CurrentUser(c)

	items, err := h.Repo.ListCart(ctx, user.ID)
	if err != nil {
		l.Error("cart_list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add")
	user := authmw.CurrentUser(c)

	var req struct {
		MovieID string  `json:"movie_id"`
		Title   string  `json:"title"`
		Author  *string `json:"author"`
		Price   *string `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_add_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.MovieID == "" || req.Title == "" {
		l.Warn("cart_add_failed", "status", 400, "reason", "missing_fields")
		return echo.NewHTTPError(http.StatusBadRequest, "Укажите movie_id и title")
	}

	item := models.CartItem{
		UserID:  user.ID,
		MovieID: req.MovieID,
		Title:   req.Title,
		Author:  req.Author,
		Price:   req.Price,
	}
	if err := h.Repo.UpsertCartItem(ctx, &item); err != nil {
		l.Error("cart_add_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Не удалось добавить в корзину")
	}

	h.publish(c, map[string]any{
		"type":    "cart_item_added",
		"userID":  user.ID,
		"movieID": item.MovieID,
	})

	l.Info("cart_item_added", "user_id", user.ID, "movie_id", item.MovieID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_delete")
	user := authmw.CurrentUser(c)

	movieID := c.Param("movie_id")
	if err := h.Repo.DeleteCartItem(ctx, user.ID, movieID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("cart_delete_failed", "status", 404, "movie_id", movieID)
			return echo.NewHTTPError(http.StatusNotFound, "Товар не найден в корзине")
		}
		l.Error("cart_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, map[string]any{
		"type":    "cart_item_removed",
		"userID":  user.ID,
		"movieID": movieID,
	})

	l.Info("cart_item_removed", "user_id", user.ID, "movie_id", movieID)
	return c.NoContent(http.StatusNoContent)
}
