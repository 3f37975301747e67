package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tuteai/internal/bootstrap"
	"tuteai/internal/config"
	"tuteai/internal/database"
	"tuteai/internal/handler"
	"tuteai/internal/logger"
	"tuteai/internal/middleware"
	"tuteai/internal/repository"
	"tuteai/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	store, closeCache := bootstrap.NewCache(cfg, appLogger)
	defer closeCache()

	var opts []service.Option
	db, err := database.NewDB(cfg)
	if err != nil {
		appLogger.Warn("Artifact persistence disabled", zap.Error(err))
	} else {
		defer db.Close()
		artifacts := repository.NewArtifactDatabaseAdapter(db, repository.NewTransactionManagerAdapter(db))
		opts = append(opts, service.WithArtifactRepository(artifacts))
	}

	svc, model, err := bootstrap.NewGenerationService(context.Background(), cfg, store, appLogger, opts...)
	if err != nil {
		appLogger.Fatal("Failed to create generation service", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.WriteTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	handler.NewGenerationHandler(svc, model).RegisterRoutes(app)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	svc.Wait()
	appLogger.Info("Server exited gracefully")
}
