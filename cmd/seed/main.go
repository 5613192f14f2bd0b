package main

import (
	"go.uber.org/zap"

	"placify-backend/shared/config"
	"placify-backend/shared/database"
	"placify-backend/shared/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.GetConfig()

	if err := logger.InitLogger(&logger.LogConfig{Level: cfg.LogLevel, Environment: cfg.AppEnv, ServiceName: "seed"}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.GetLogger()

	log.Info("Starting database seeding")

	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.CloseDatabase()

	if err := database.SeedDatabase(database.GetDB()); err != nil {
		log.Fatal("Failed to seed database", zap.Error(err))
	}

	log.Info("Database seeding completed successfully")
}
