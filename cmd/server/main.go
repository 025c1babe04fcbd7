package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"skillswap/internal/adapters/http/middleware"
	"skillswap/internal/adapters/http/routes"
	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/config"
	"skillswap/internal/core/services"
	"skillswap/internal/pkg/logger"
	"skillswap/internal/pkg/storage"
)

// @title SkillSwap API
// @version 1.0
// @description Skill exchange marketplace API: users trade coins for services and demands

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.AppMode)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to auto migrate")
	}
	log.Info().Msg("database migration completed")

	if err := config.NewSeeder(db, log).Run(); err != nil {
		log.Warn().Err(err).Msg("database seeding failed")
	}

	store := setupStorage(cfg, log)

	// Hourly sweep moving open demands past their deadline to expired
	expiryService := services.NewExpiryService(repositories.NewDemandRepository(db), repositories.NewRefreshTokenRepository(db), log)
	if err := expiryService.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start demand expiry scheduler")
	}
	defer expiryService.Stop()

	errorLogRepo := repositories.NewErrorLogRepository(db)

	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API v1.0",
		ErrorHandler: middleware.NewErrorHandler(log, errorLogRepo, cfg.Debug),
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg, log, store)

	go gracefulShutdown(app, log)

	log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// setupStorage connects to the object store when configured. Without it
// the API runs fine; profile image uploads answer 503.
func setupStorage(cfg *config.Config, log zerolog.Logger) *storage.ObjectStore {
	if cfg.Storage.Endpoint == "" {
		log.Warn().Msg("object storage not configured, profile image uploads disabled")
		return nil
	}

	store, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		log.Error().Err(err).Msg("object storage connection failed, profile image uploads disabled")
		return nil
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Error().Err(err).Msg("object storage bucket check failed, profile image uploads disabled")
		return nil
	}

	log.Info().Str("bucket", cfg.Storage.Bucket).Msg("object storage ready")
	return store
}

// gracefulShutdown drains in-flight requests on SIGINT/SIGTERM
func gracefulShutdown(app *fiber.App, log zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}
