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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/kokurikuler-api/api/swagger"
	"github.com/noah-isme/kokurikuler-api/internal/handler"
	"github.com/noah-isme/kokurikuler-api/internal/repository"
	"github.com/noah-isme/kokurikuler-api/internal/router"
	"github.com/noah-isme/kokurikuler-api/internal/service"
	"github.com/noah-isme/kokurikuler-api/migrations"
	"github.com/noah-isme/kokurikuler-api/pkg/cache"
	"github.com/noah-isme/kokurikuler-api/pkg/config"
	"github.com/noah-isme/kokurikuler-api/pkg/database"
	"github.com/noah-isme/kokurikuler-api/pkg/export"
	"github.com/noah-isme/kokurikuler-api/pkg/genai"
	"github.com/noah-isme/kokurikuler-api/pkg/logger"
	"github.com/noah-isme/kokurikuler-api/pkg/storage"
	"github.com/noah-isme/kokurikuler-api/pkg/whatsapp"
)

// @title Kokurikuler API
// @version 1.0.0
// @description Daily co-curricular journal, dual validation, monitoring and character missions.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := database.RunMigrations(ctx, db, migrations.FS, logr); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	var (
		cacheRepo   service.CacheRepository
		cachePinger handler.Pinger
	)
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, monitoring cache disabled", zap.Error(err))
	} else if redisClient != nil {
		defer redisClient.Close()
		redisCache := repository.NewCacheRepository(redisClient, "kokurikuler")
		cacheRepo, cachePinger = redisCache, redisCache
	}

	photos, err := storage.NewPhotoStore(cfg.Uploads.StorageDir, cfg.Uploads.MaxFileSizeBytes, cfg.Uploads.AllowedMIMEs)
	if err != nil {
		logr.Fatal("failed to prepare photo storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	users := repository.NewUserRepository(db)
	entries := repository.NewJournalRepository(db)
	links := repository.NewParentLinkRepository(db)
	records := repository.NewCharacterRecordRepository(db)
	missions := repository.NewMissionRepository(db)

	validate := validator.New()
	metrics := service.NewMetricsService()
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Monitoring.CacheTTL, logr, cfg.Monitoring.CacheEnabled)

	sender := whatsapp.NewClient(cfg.Notifications.FonnteBaseURL, cfg.Notifications.FonnteToken)
	notifier := service.NewNotificationService(sender, metrics, logr, service.NotificationOptions{
		Workers:    cfg.Notifications.Workers,
		Retries:    cfg.Notifications.Retries,
		SchoolName: cfg.Notifications.SchoolName,
	})
	notifier.Start(context.Background())
	defer notifier.Stop()

	generator := genai.NewClient(cfg.AI.GeminiBaseURL, cfg.AI.GeminiModel, cfg.AI.GeminiAPIKey, cfg.AI.Timeout)
	pdf := export.NewPDFExporter()

	journalSvc := service.NewJournalService(entries, users, links, photos, signer, cacheSvc, metrics, validate, logr, service.JournalOptions{
		PhotoURLPrefix: cfg.APIPrefix + "/journals/photo/",
	})
	monitoringSvc := service.NewMonitoringService(entries, users, cacheSvc, export.NewCSVExporter(export.WithBOM()), pdf, validate, logr)
	reportSvc := service.NewReportService(users, entries, records, generator, pdf, validate, logr, cfg.Notifications.SchoolName)
	missionSvc := service.NewMissionService(missions, users, links, notifier, metrics, validate, logr, cfg.Missions.XPReward)
	recordSvc := service.NewRecordService(records, users, validate, logr)
	parentSvc := service.NewParentService(links, users, entries, records, notifier, validate, logr)

	engine := router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
	}, tokens, metrics, router.Handlers{
		Journal:     handler.NewJournalHandler(journalSvc),
		Monitoring:  handler.NewMonitoringHandler(monitoringSvc),
		Contributor: handler.NewContributorHandler(recordSvc, missionSvc, reportSvc),
		Student:     handler.NewStudentHandler(missionSvc),
		Parent:      handler.NewParentHandler(parentSvc),
		Teacher:     handler.NewTeacherHandler(monitoringSvc, reportSvc),
		Metrics:     handler.NewMetricsHandler(metrics, db, cachePinger),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logr.Error("server failed", zap.Error(err))
	case <-ctx.Done():
		logr.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
		_ = srv.Close()
	}
	logr.Info("server stopped")
}
