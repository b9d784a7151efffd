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

	_ "github.com/noah-isme/class-planner-api/api/swagger"
	"github.com/noah-isme/class-planner-api/internal/repository"
	"github.com/noah-isme/class-planner-api/internal/service"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	"github.com/noah-isme/class-planner-api/pkg/cache"
	"github.com/noah-isme/class-planner-api/pkg/config"
	"github.com/noah-isme/class-planner-api/pkg/database"
	"github.com/noah-isme/class-planner-api/pkg/logger"
)

// @title Class Planner API
// @version 1.0.0
// @description Bell schedules, teacher timetables, class logs and course grids
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		logr.Fatal("failed to prepare schema", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var feed service.ChangeFeed = repository.NewLocalChangeFeed(logr)
	if redisClient != nil {
		feed = repository.NewRedisChangeFeed(redisClient, cfg.Redis.Channel, logr)
	}

	metricsSvc := service.NewMetricsService()
	documents := repository.NewDocumentRepository(db)
	syncSvc := service.NewSyncService(documents, feed, metricsSvc, service.SyncConfig{
		Workers:    cfg.Sync.Workers,
		MaxRetries: cfg.Sync.MaxRetries,
		RetryDelay: cfg.Sync.RetryDelay,
	}, logr)
	if err := syncSvc.Start(ctx); err != nil {
		logr.Fatal("failed to start sync", zap.Error(err))
	}
	defer syncSvc.Stop()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, redisClient != nil)

	state := timetable.NewState()
	snapshotSvc := service.NewSnapshotService(syncSvc, state, cacheSvc, metricsSvc, logr)
	if err := snapshotSvc.Start(ctx); err != nil {
		logr.Fatal("failed to load planner snapshot", zap.Error(err))
	}
	defer snapshotSvc.Stop()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logr.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.UTC
	}

	validate := validator.New()
	scheduler := timetable.NewScheduler(logr)

	catalogSvc := service.NewCatalogService(syncSvc, state, logr)
	userSvc := service.NewUserService(syncSvc, state, validate, logr, service.DirectoryConfig{
		AllowedEmailDomain: cfg.Directory.AllowedEmailDomain,
		BootstrapEmail:     cfg.Directory.BootstrapEmail,
		BootstrapPassword:  cfg.Directory.BootstrapPassword,
		BootstrapName:      cfg.Directory.BootstrapName,
	})
	authSvc := service.NewAuthService(state, syncSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	scheduleSvc := service.NewScheduleService(syncSvc, state, scheduler, validate, logr)
	logSvc := service.NewLogService(syncSvc, state, validate, logr)
	timetableSvc := service.NewTimetableService(state, logSvc, cacheSvc, metricsSvc, service.TimetableConfig{
		Location: location,
		CacheTTL: cfg.Reports.CacheTTL,
	}, logr)

	if err := userSvc.EnsureBootstrapAdmin(ctx); err != nil {
		logr.Fatal("failed to seed administrator", zap.Error(err))
	}

	router := newRouter(cfg, logr, routerDeps{
		metrics:   metricsSvc,
		state:     state,
		database:  documents,
		cache:     cacheRepo,
		auth:      authSvc,
		catalog:   catalogSvc,
		users:     userSvc,
		schedules: scheduleSvc,
		logs:      logSvc,
		timetable: timetableSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
