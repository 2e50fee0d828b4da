package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"authd/config"
	"authd/db"
	"authd/internal/auth/handler"
	repo "authd/internal/auth/repository/postgres"
	"authd/internal/auth/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()
	log := setupLogger(cfg.Env)

	dbPool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbPool.Close()

	postgresRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	sessionService := service.NewSessionService(postgresRepo, postgresRepo, postgresRepo, tokenService)
	authHandler := handler.NewAuthHandler(sessionService, tokenService, cfg)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: true,
	}))
	app.Use("/api/auth", limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	handler.RegisterRoutes(app, authHandler)

	log.Info("starting auth server", slog.String("port", cfg.Port), slog.String("env", cfg.Env))

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
