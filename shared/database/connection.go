package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"placify-backend/shared/config"
	"placify-backend/shared/database/models"
	"placify-backend/shared/database/models/document"
	"placify-backend/shared/database/models/notification"
	"placify-backend/shared/logger"
)

var DB *gorm.DB

// AllModels lists every table in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.University{},
		&models.Company{},
		&models.Student{},
		&models.CompanyUser{},
		&models.UniversityUser{},
		&models.Internship{},
		&models.Application{},
		&document.Document{},
		&notification.Notification{},
	}
}

func getLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.LogLevel == "debug" {
		return gormlogger.Info
	}
	if cfg.IsProduction() {
		return gormlogger.Error
	}
	return gormlogger.Warn
}

// DSN builds the postgres connection string
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)
}

// Open connects without migrating
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(getLogLevel(cfg)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// InitDatabase initializes the database connection and runs migrations
func InitDatabase() error {
	cfg := config.GetConfig()

	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db

	logger.GetLogger().Info("Database connection established",
		zap.String("host", cfg.DBHost), zap.String("database", cfg.DBName))

	if err := runMigrations(DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func runMigrations(db *gorm.DB) error {
	log := logger.GetLogger()
	migrator := db.Migrator()

	created := 0
	for _, model := range AllModels() {
		if !migrator.HasTable(model) {
			created++
		}
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Info("Database schema is up to date", zap.Int("tables_created", created))
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
