package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lovewall/pkg/config"
	"lovewall/pkg/database"
	"lovewall/pkg/logger"
	"lovewall/pkg/middleware"
	"lovewall/pkg/queue"
	boardHTTP "lovewall/services/board/internal/controller/http"
	"lovewall/services/board/internal/repo/cache"
	"lovewall/services/board/internal/repo/persistent"
	"lovewall/services/board/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "lovewall/services/board/docs" // Swagger docs
)

type ShutdownFunc func(ctx context.Context) error

// NewUseCases builds the write and read sides over db. redisClient and
// queueClient are optional.
func NewUseCases(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) (usecase.MutationUseCase, usecase.ReadUseCase) {
	postRepo := persistent.NewPostRepository(db)
	commentRepo := persistent.NewCommentRepository(db)

	var postCache cache.PostCache
	if redisClient != nil {
		postCache = cache.NewPostCache(redisClient, cfg.CacheTTL)
	}

	var events usecase.EventPublisher
	if queueClient != nil {
		events = queueClient
	}

	mutationUseCase := usecase.NewMutationUseCase(postRepo, commentRepo, postCache, events, log)
	readUseCase := usecase.NewReadUseCase(postRepo, commentRepo, postCache, cfg.FeedLimit, log)
	return mutationUseCase, readUseCase
}

func NewRouter(cfg *config.Config, handler *boardHTTP.BoardHandler) *gin.Engine {
	r := gin.Default()

	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.SessionMiddleware())

	{
		api.POST("/posts", handler.CreatePost)
		api.GET("/posts", handler.ListPosts)
		api.GET("/posts/:id", handler.GetPost)
		api.POST("/posts/:id/comments", handler.CreateComment)
		api.POST("/posts/:id/like", handler.ToggleLike)
	}

	return r
}

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client, shutdownTracing ShutdownFunc) {
	mutationUseCase, readUseCase := NewUseCases(cfg, log, db, redisClient, queueClient)
	boardHandler := boardHTTP.NewBoardHandler(mutationUseCase, readUseCase, log)

	r := NewRouter(cfg, boardHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Board service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down board service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop accepting requests before closing what they depend on
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := database.Close(db); err != nil {
		log.Error("Error closing database: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if shutdownTracing != nil {
		if err := shutdownTracing(ctx); err != nil {
			log.Error("Error flushing traces: %v", err)
		}
	}

	log.Info("Board service exited")
	_ = log.Sync()
}
