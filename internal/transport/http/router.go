package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/handlers"
	authmw "github.com/DeutscheWaffel/Videoteka-UP/internal/middleware/auth"
)

type Deps struct {
	Guard           *authmw.Guard
	AuthHandler     *handlers.AuthHandler
	BookmarkHandler *handlers.BookmarkHandler
	CartHandler     *handlers.CartHandler
	FilmHandler     *handlers.FilmHandler
	AdminHandler    *handlers.AdminHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "healthy"})
	})

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)

	// каталог открыт без аутентификации
	v1.GET("/genres/:genre/films", d.FilmHandler.ByGenre)
	v1.GET("/films/all", d.FilmHandler.All)
	v1.GET("/films/random/:count", d.FilmHandler.Random)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	me := v1.Group("/me", d.Guard.RequireUser)
	me.GET("", d.AuthHandler.Me)
	me.PUT("/avatar", d.AuthHandler.UpdateAvatar)
	me.PUT("/password", d.AuthHandler.ChangePassword)

	bookmarks := v1.Group("/bookmarks", d.Guard.RequireUser)
	bookmarks.GET("", d.BookmarkHandler.List)
	bookmarks.POST("", d.BookmarkHandler.Add)
	bookmarks.DELETE("/:movie_id", d.BookmarkHandler.Delete)

	cart := v1.Group("/cart", d.Guard.RequireUser)
	cart.GET("", d.CartHandler.List)
	cart.POST("", d.CartHandler.Add)
	cart.DELETE("/:movie_id", d.CartHandler.Delete)

	admin := v1.Group("/admin", d.Guard.RequireUser, d.Guard.AdminOnly)
	admin.POST("/films", d.FilmHandler.Create)
	admin.DELETE("/films/:id", d.FilmHandler.Delete)
	admin.GET("/users", d.AdminHandler.ListUsers)
	admin.PUT("/users/:id/role", d.AdminHandler.ReassignRole)
	admin.PUT("/users/:id/avatar", d.AdminHandler.UpdateUserAvatar)
}
