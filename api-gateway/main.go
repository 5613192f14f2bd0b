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

	gatewaymw "placify-backend/api-gateway/middleware"
	"placify-backend/api-gateway/routes"
	"placify-backend/shared/config"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/middleware"
	"placify-backend/shared/server"
	"placify-backend/shared/utils/cache"
)

const serviceName = "api-gateway"

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

	proxy, err := routes.NewProxyFromConfig(cfg)
	if err != nil {
		zlog.Fatal("Invalid service routing", zap.Error(err))
	}

	// Global limits are shared between gateway replicas through Redis when it is reachable
	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(context.Background(), cfg); err != nil {
		zlog.Warn("Redis unavailable, rate limiting per process", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}
	rateLimiter := middleware.NewRateLimiter(middleware.NewLimitStore(redisClient, "placify:gateway:ratelimit"))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		logger.RequestIDMiddleware(),
		gatewaymw.ResponseTime(),
		logger.Middleware(),
		logger.Recovery(),
		gatewaymw.CORS(cfg),
		metrics.NewHTTPMetrics(serviceName).Middleware(),
	)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "gateway",
		})
	})
	metrics.Register(router)

	// Swagger documentation outside production
	if !cfg.IsProduction() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Everything else is proxied by path prefix
	router.NoRoute(
		rateLimiter.Middleware("global", middleware.NewRateLimitConfig(cfg)),
		gatewaymw.BlockInternal(gatewaymw.InternalPaths...),
		proxy.Handler(),
	)

	if err := server.Run(serviceName, server.PortOf(cfg.APIGatewayURL, "8000"), router); err != nil {
		zlog.Fatal("API gateway stopped", zap.Error(err))
	}
}
