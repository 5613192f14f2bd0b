package main

import (
	"fmt"

	"go.uber.org/zap"

	"placify-backend/shared/config"
	"placify-backend/shared/database"
	"placify-backend/shared/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.GetConfig()

	if err := logger.InitLogger(&logger.LogConfig{Level: cfg.LogLevel, Environment: cfg.AppEnv, ServiceName: "reset-db"}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.GetLogger()

	if cfg.IsProduction() {
		log.Fatal("Refusing to reset a production database")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}

	// Drop in reverse dependency order
	all := database.AllModels()
	migrator := db.Migrator()
	for i := len(all) - 1; i >= 0; i-- {
		if err := migrator.DropTable(all[i]); err != nil {
			log.Fatal("Failed to drop table", zap.String("model", typeName(all[i])), zap.Error(err))
		}
		log.Info("Dropped table", zap.String("model", typeName(all[i])))
	}

	log.Info("Database reset completed, run the seed command to recreate tables")
}

func typeName(model interface{}) string {
	return fmt.Sprintf("%T", model)
}
