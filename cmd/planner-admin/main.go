package main

import (
	"context"
	"errors"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/repository"
	"github.com/noah-isme/class-planner-api/internal/service"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	"github.com/noah-isme/class-planner-api/pkg/cache"
	"github.com/noah-isme/class-planner-api/pkg/config"
	"github.com/noah-isme/class-planner-api/pkg/database"
	"github.com/noah-isme/class-planner-api/pkg/logger"
)

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

	ctx := context.Background()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	// Running API instances reload the directory when the change is announced on Redis.
	var feed service.ChangeFeed = repository.NewLocalChangeFeed(logr)
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, running servers will not be notified", zap.Error(err))
	} else if redisClient != nil {
		defer redisClient.Close()
		feed = repository.NewRedisChangeFeed(redisClient, cfg.Redis.Channel, logr)
	}

	syncSvc := service.NewSyncService(repository.NewDocumentRepository(db), feed, nil, service.SyncConfig{}, logr)
	state := timetable.NewState()
	snapshotSvc := service.NewSnapshotService(syncSvc, state, nil, nil, logr)
	if err := snapshotSvc.Start(ctx); err != nil {
		logr.Fatal("failed to load users", zap.Error(err))
	}
	defer snapshotSvc.Stop()

	cli := &commandLine{
		users: service.NewUserService(syncSvc, state, nil, logr, service.DirectoryConfig{}),
		out:   os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		logr.Fatal("command failed", zap.Error(err))
	}
}
