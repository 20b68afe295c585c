package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	appconfig "github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/api"
	"github.com/plateful/backend/internal/database"
	"github.com/plateful/backend/internal/printing"
	"github.com/plateful/backend/internal/server"
)

func main() {
	cfg, err := appconfig.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if appconfig.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	deps := api.Deps{
		DB:     db,
		Config: cfg,
		Logger: logger,
	}

	if cfg.RedisHost != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			deps.RedisClient = redisClient
		}
	} else {
		logger.Info("redis not configured, rate limiting disabled")
	}

	if os.Getenv("S3_ENABLED") == "true" {
		s3Cfg, err := appconfig.NewS3Config(context.Background())
		if err != nil {
			logger.Fatal("failed to initialize S3", zap.Error(err))
		}
		deps.S3Config = s3Cfg
	} else {
		logger.Info("S3 not configured, storing images locally")
	}

	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: 30 * time.Second,
		RemoteURL:      os.Getenv("CHROME_REMOTE_URL"),
		NoSandbox:      os.Getenv("CHROME_NO_SANDBOX") == "true",
		Logger:         logger,
	})
	if err != nil {
		logger.Warn("PDF renderer unavailable, shopping list export disabled", zap.Error(err))
	} else {
		deps.Renderer = renderer
		defer renderer.Close()
	}

	srv := server.NewServer(deps)
	if err := srv.Start(cfg.ServerPort); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
