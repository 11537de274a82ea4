package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"aireading/internal/auth"
	"aireading/internal/config"
	apphttp "aireading/internal/http"
	"aireading/internal/repository/sqlite"
	"aireading/internal/service"
	"aireading/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	// A missing signing secret is a deployment error, never defaulted.
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	bookRepo := sqlite.NewBookRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)
	recRepo := sqlite.NewRecommendationRepository(db)
	favoriteRepo := sqlite.NewFavoriteRepository(db)
	historyRepo := sqlite.NewHistoryRepository(db)

	for name, init := range map[string]func(context.Context) error{
		"users":           userRepo.Init,
		"books":           bookRepo.Init,
		"reviews":         reviewRepo.Init,
		"recommendations": recRepo.Init,
		"favorites":       favoriteRepo.Init,
		"history":         historyRepo.Init,
	} {
		if err := init(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", name, err)
		}
	}

	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	codec := auth.NewCodec(cfg.Auth.JWTSecret, tokenTTL)
	hasher := auth.NewHasher()

	userService := service.NewUserService(userRepo, hasher)
	bookService := service.NewBookService(bookRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, bookRepo)
	recService := service.NewRecommendationService(recRepo)
	libraryService := service.NewLibraryService(favoriteRepo, historyRepo, bookRepo)

	var storageSvc storage.Service
	if cfg.Storage.Bucket != "" {
		storageSvc, err = buildStorage(ctx, cfg, logger)
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
	} else {
		logger.Warn("storage bucket not configured, audio playback disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Config{
		Users:          userService,
		Books:          bookService,
		Reviews:        reviewService,
		Recommendation: recService,
		Library:        libraryService,
		Codec:          codec,
		Storage:        storageSvc,
		Bucket:         cfg.Storage.Bucket,
		URLTTL:         time.Duration(cfg.Storage.URLTTLMinutes) * time.Minute,
		CookieTTL:      tokenTTL,
		Logger:         logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	client, err := storage.NewClient(ctx, storage.ClientOptions{
		Region:   cfg.Storage.Region,
		Profile:  cfg.AWS.Profile,
		Endpoint: cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("build s3 client: %w", err)
	}
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
