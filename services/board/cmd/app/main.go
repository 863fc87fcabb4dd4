package main

import (
	"context"

	"lovewall/pkg/cache"
	"lovewall/pkg/config"
	"lovewall/pkg/database"
	"lovewall/pkg/logger"
	"lovewall/pkg/queue"
	"lovewall/pkg/tracing"
	boardApp "lovewall/services/board/internal/app"
	"lovewall/services/board/internal/repo/persistent"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Lovewall Board API
// @version         1.0
// @description     Anonymous Valentine board: posts, comments and likes

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New().With("service", cfg.ServiceName)

	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	// Postgres schema is owned by goose (cmd/migrate); sqlite is migrated in place
	if cfg.DBDriver == database.DriverSQLite {
		if err := persistent.AutoMigrate(db); err != nil {
			log.Error("Failed to migrate sqlite schema: %v", err)
			panic(err)
		}
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("Failed to init tracing: %v (continuing without traces)", err)
		shutdownTracing = nil
	}

	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(cfg); err != nil {
		log.Warn("Failed to connect to redis: %v (continuing without cache)", err)
	} else {
		redisClient = client
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without events)", err)
		queueClient = nil
	}

	boardApp.Run(cfg, log, db, redisClient, queueClient, shutdownTracing)
}
