package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotaguide/rota-backend/config"
	"github.com/rotaguide/rota-backend/internal/app/controller"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/rotaguide/rota-backend/internal/db"
	"github.com/rotaguide/rota-backend/internal/middleware"
	"github.com/rotaguide/rota-backend/internal/router"
	"github.com/rotaguide/rota-backend/internal/storage"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"github.com/rotaguide/rota-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting Rota backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	conn := db.GetDB()

	placeRepo := repository.NewPlaceRepository(conn)
	placeImageRepo := repository.NewPlaceImageRepository(conn)
	reviewRepo := repository.NewReviewRepository(conn)
	reviewImageRepo := repository.NewReviewImageRepository(conn)
	favoriteRepo := repository.NewFavoriteRepository(conn)
	userRepo := repository.NewUserRepository(conn)

	placeService := service.NewPlaceService(conn, placeRepo, placeImageRepo, reviewRepo, favoriteRepo, service.CatalogOptions{
		PublicListLimit: cfg.Catalog.PublicListLimit,
		MaxImages:       cfg.Catalog.MaxImages,
	})
	reviewService := service.NewReviewService(conn, reviewRepo, reviewImageRepo, placeRepo, cfg.Catalog.MaxImages)
	favoriteService := service.NewFavoriteService(favoriteRepo, placeRepo)
	searchService := service.NewSearchService(placeRepo, cfg.Catalog.SuggestMinQueryLen)
	adminService := service.NewAdminService(placeService, placeRepo, reviewRepo, userRepo)
	userService := service.NewUserService(userRepo)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		authMiddleware.WithRevocation(redis.NewRevocationStore(redis.GetClient()))
	} else {
		logger.Warn("Redis disabled, token revocation list is not checked")
	}

	var presigner controller.ImagePresigner
	if cfg.S3.Bucket != "" {
		presigner = storage.NewS3Storage(context.Background(), &cfg.S3)
	}

	r := router.NewRouter(router.Controllers{
		Place:    controller.NewPlaceController(placeService),
		Review:   controller.NewReviewController(reviewService),
		Favorite: controller.NewFavoriteController(favoriteService),
		Search:   controller.NewSearchController(searchService),
		Admin:    controller.NewAdminController(adminService),
		Upload:   controller.NewUploadController(presigner),
	}, authMiddleware, userService, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	logger.Info("Server stopped")
}
