package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "placify-backend/docs"

	"placify-backend/core-service/applications"
	"placify-backend/core-service/directory"
	"placify-backend/core-service/handlers"
	"placify-backend/core-service/internships"
	"placify-backend/core-service/listing"
	"placify-backend/core-service/onboarding"
	"placify-backend/core-service/profile"
	"placify-backend/shared/clients"
	"placify-backend/shared/config"
	"placify-backend/shared/database"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/server"
	"placify-backend/shared/utils/auth"
	"placify-backend/shared/utils/cache"
)

const serviceName = "core-service"

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
	db := database.GetDB()

	// Redis is optional, the listing reads straight from Postgres without it
	var cacheManager *cache.CacheManager
	if client, err := cache.NewRedisClient(context.Background(), cfg); err != nil {
		zlog.Warn("Redis unavailable, listing cache disabled", zap.Error(err))
	} else {
		cacheManager = cache.NewCacheManager(client)
		defer cacheManager.Close()
	}

	tokens := auth.NewTokenManagerFromConfig(cfg)
	notifier := clients.NewNotificationClientFromConfig(cfg)

	listingSvc := listing.NewService(listing.NewGormStore(db), cacheManager, listing.Options{
		Mode:            listing.ParseJobTypeMode(cfg.ListingJobTypeMode),
		VisibleStatuses: cfg.ListingVisibleStatuses,
		CacheTTL:        cfg.ListingCacheTTL(),
	})

	h := handlers.Handlers{
		Listing:      handlers.NewListingHandler(listingSvc),
		Role:         handlers.NewRoleHandler(onboarding.NewService(onboarding.NewGormStore(db), tokens)),
		Internship:   handlers.NewInternshipHandler(internships.NewService(internships.NewGormStore(db), listingSvc)),
		Application:  handlers.NewApplicationHandler(applications.NewService(applications.NewGormStore(db), notifier, listingSvc)),
		User:         handlers.NewUserHandler(profile.NewService(profile.NewGormStore(db))),
		Organization: handlers.NewOrganizationHandler(directory.NewService(directory.NewGormStore(db), cacheManager, cfg.ListingCacheTTL())),
	}

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

	handlers.RegisterRoutes(router, h, tokens)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "core",
		})
	})
	metrics.Register(router)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := server.Run(serviceName, server.PortOf(cfg.CoreServiceURL, "8003"), router); err != nil {
		zlog.Fatal("Core service stopped", zap.Error(err))
	}
}
