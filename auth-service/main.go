package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "placify-backend/docs"

	"placify-backend/auth-service/handlers"
	"placify-backend/auth-service/services"
	"placify-backend/shared/clients"
	"placify-backend/shared/config"
	"placify-backend/shared/database"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/middleware"
	"placify-backend/shared/server"
	"placify-backend/shared/utils/auth"
	"placify-backend/shared/utils/cache"
)

const serviceName = "auth-service"

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: serviceName,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.GetLogger()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.CloseDatabase()

	// Login limits are shared through Redis when it is reachable
	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(context.Background(), cfg); err != nil {
		zlog.Warn("Redis unavailable, rate limiting per process", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}
	rateLimiter := middleware.NewRateLimiter(middleware.NewLimitStore(redisClient, "placify:auth:ratelimit"))

	tokens := auth.NewTokenManagerFromConfig(cfg)
	authService := services.NewAuthService(
		services.NewGormStore(database.GetDB()),
		tokens,
		clients.NewNotificationClientFromConfig(cfg),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		logger.RequestIDMiddleware(),
		logger.Middleware(),
		logger.Recovery(),
		metrics.NewHTTPMetrics(serviceName).Middleware(),
	)

	handlers.NewAuthHandler(authService).RegisterRoutes(router, tokens, rateLimiter,
		middleware.NewRateLimitConfig(cfg),
		middleware.NewLoginRateLimitConfig(cfg),
	)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "auth",
		})
	})
	metrics.Register(router)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := server.Run(serviceName, server.PortOf(cfg.AuthServiceURL, "8001"), router); err != nil {
		zlog.Fatal("Auth service stopped", zap.Error(err))
	}
}
