package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/config"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/es"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/handlers"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/logging"
	authmw "github.com/DeutscheWaffel/Videoteka-UP/internal/middleware/auth"
	loggingmw "github.com/DeutscheWaffel/Videoteka-UP/internal/middleware/logging"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/mykafka"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/repo"
	"github.com/DeutscheWaffel/Videoteka-UP/internal/tokens"
	httpserver "github.com/DeutscheWaffel/Videoteka-UP/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmptyBytes(configuration.JWTSecret, "JWT_SECRET")

	logger := logging.New(configuration.LogLevel)

	db, err := config.InitDB(configuration.DatabaseURL)
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KafkaAddress != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KafkaAddress})
		if err != nil {
			log.Fatal(err)
		}
	}

	r := &repo.GormRepo{DB: db}
	guard := &authmw.Guard{Repo: r, JWTSecret: configuration.JWTSecret}

	deps := httpserver.Deps{
		Guard: guard,
		AuthHandler: &handlers.AuthHandler{
			Repo:      r,
			JWTSecret: configuration.JWTSecret,
			TokenTTL:  tokens.DefaultTTL,
			Producer:  prod,
		},
		BookmarkHandler: &handlers.BookmarkHandler{Repo: r, Producer: prod},
		CartHandler:     &handlers.CartHandler{Repo: r, Producer: prod},
		FilmHandler:     &handlers.FilmHandler{Repo: r, Producer: prod},
		AdminHandler:    &handlers.AdminHandler{Repo: r, Producer: prod},
	}

	if configuration.ESURL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.FilmHandler.ES = esClient
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: es.FilmIndex}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", configuration.Host, configuration.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
