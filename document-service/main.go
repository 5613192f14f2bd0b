package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"placify-backend/document-service/handlers"
	"placify-backend/document-service/services"
	"placify-backend/shared/config"
	"placify-backend/shared/database"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/server"
	"placify-backend/shared/utils/auth"
	docutils "placify-backend/shared/utils/document"
)

const serviceName = "document-service"

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

	// Initialize MinIO
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	storage, err := services.NewMinIOService(ctx, cfg)
	cancel()
	if err != nil {
		zlog.Fatal("Failed to initialize MinIO", zap.Error(err))
	}

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.CloseDatabase()

	policy := docutils.NewUploadPolicy(cfg)
	documents := services.NewDocumentService(
		services.NewGormRepository(database.GetDB()),
		storage,
		policy,
		time.Duration(cfg.UploadPresignedURLMins)*time.Minute,
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
	router.MaxMultipartMemory = policy.MaxFileSize

	handlers.NewDocumentHandler(documents, policy.MaxFileSize).
		RegisterRoutes(router, auth.NewTokenManagerFromConfig(cfg))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "document",
			"bucket":  storage.Bucket(),
		})
	})
	metrics.Register(router)

	if err := server.Run(serviceName, server.PortOf(cfg.DocumentServiceURL, "8005"), router); err != nil {
		zlog.Fatal("Document service stopped", zap.Error(err))
	}
}
