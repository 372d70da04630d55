package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeporS/worn11/config"
	"github.com/DeporS/worn11/db"
	"github.com/DeporS/worn11/handlers"
	"github.com/DeporS/worn11/middleware"
	"github.com/DeporS/worn11/repositories"
	api "github.com/DeporS/worn11/routes"
	"github.com/DeporS/worn11/services"
	"github.com/DeporS/worn11/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	kitRepo := repositories.NewPostgresKitRepository(dbConn)
	ownedKitRepo := repositories.NewPostgresOwnedKitRepository(dbConn)
	imageRepo := repositories.NewPostgresOwnedKitImageRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(dbConn, userRepo, profileRepo)
	profileService := services.NewProfileService(userRepo, profileRepo, uploader)
	teamService := services.NewTeamService(teamRepo, kitRepo, profileRepo, uploader)
	catalogService := services.NewCatalogService(kitRepo, uploader)
	searchService := services.NewSearchService(teamRepo, userRepo, uploader)
	collectionService := services.NewCollectionService(
		dbConn,
		ownedKitRepo,
		imageRepo,
		userRepo,
		teamService,
		uploader,
		logger,
	)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	profileHandler := handlers.NewProfileHandler(profileService)
	teamHandler := handlers.NewTeamHandler(teamService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	optionsHandler := handlers.NewOptionsHandler()
	searchHandler := handlers.NewSearchHandler(searchService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	logger.Info("HTTP handlers initialized")

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		profileHandler,
		teamHandler,
		catalogHandler,
		optionsHandler,
		searchHandler,
		collectionHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
