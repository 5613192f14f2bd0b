package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	nconfig "placify-backend/notification-service/config"
	"placify-backend/notification-service/handlers"
	"placify-backend/notification-service/services"
	"placify-backend/shared/database"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/server"
	"placify-backend/shared/utils/auth"
)

const serviceName = "notification-service"

func main() {
	// Load configuration
	cfg := nconfig.LoadNotificationConfig()

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsManager := services.NewWebSocketManager(cfg.WebSocket)
	go wsManager.Run(ctx)

	tokens := auth.NewTokenManagerFromConfig(cfg.Config)
	notifications := services.NewNotificationService(services.NewGormRepository(database.GetDB()), wsManager)

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

	handlers.RegisterRoutes(router,
		handlers.NewNotificationHandler(notifications),
		handlers.NewWebSocketHandler(wsManager, tokens),
		tokens,
		cfg.InternalServiceToken,
	)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "notification",
		})
	})
	metrics.Register(router)

	if err := server.Run(serviceName, server.PortOf(cfg.NotificationServiceURL, "8004"), router); err != nil {
		zlog.Fatal("Notification service stopped", zap.Error(err))
	}
}
