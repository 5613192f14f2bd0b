package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Runtime
	AppEnv   string
	LogLevel string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret            string
	JWTExpireHours       int
	JWTRefreshExpireDays int

	// API Gateway URL
	APIGatewayURL string

	// Seed admin
	AdminEmail    string
	AdminPassword string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Rate Limiting
	RateLimitMaxRequests          int
	RateLimitTimeWindowSeconds    int
	RateLimitBlockDurationMinutes int

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   int
	LoginRateLimitWindowSeconds int
	LoginRateLimitBlockMinutes  int

	// Frontend URL
	FrontendURL string

	// Service URLs
	AuthServiceURL         string
	CoreServiceURL         string
	NotificationServiceURL string
	DocumentServiceURL     string

	// Internal calls between services
	InternalServiceToken string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Upload policy
	UploadMaxFileSize      int64
	UploadPhotoExtensions  []string
	UploadCVExtensions     []string
	UploadOtherExtensions  []string
	UploadPresignedURLMins int

	// Listing policy
	ListingVisibleStatuses []string
	ListingJobTypeMode     string
	ListingCacheTTLSeconds int
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "placify"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours:       getEnvAsInt("JWT_EXPIRE_HOURS", 3),
		JWTRefreshExpireDays: getEnvAsInt("JWT_REFRESH_EXPIRE_DAYS", 7),

		APIGatewayURL: getEnv("API_GATEWAY_URL", "http://localhost:8000"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@placify.dev"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		RateLimitMaxRequests:          getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitTimeWindowSeconds:    getEnvAsInt("RATE_LIMIT_TIME_WINDOW_SECONDS", 60),
		RateLimitBlockDurationMinutes: getEnvAsInt("RATE_LIMIT_BLOCK_DURATION_MINUTES", 15),

		LoginRateLimitMaxAttempts:   getEnvAsInt("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", 5),
		LoginRateLimitWindowSeconds: getEnvAsInt("LOGIN_RATE_LIMIT_WINDOW_SECONDS", 300),
		LoginRateLimitBlockMinutes:  getEnvAsInt("LOGIN_RATE_LIMIT_BLOCK_MINUTES", 30),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		AuthServiceURL:         getEnv("AUTH_SERVICE_URL", "http://localhost:8001"),
		CoreServiceURL:         getEnv("CORE_SERVICE_URL", "http://localhost:8003"),
		NotificationServiceURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8004"),
		DocumentServiceURL:     getEnv("DOCUMENT_SERVICE_URL", "http://localhost:8005"),

		InternalServiceToken: getEnv("INTERNAL_SERVICE_TOKEN", "internal-token-change-this"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "placify-documents"),

		UploadMaxFileSize:      parseSize(getEnv("UPLOAD_MAX_FILE_SIZE", "10MB"), 10<<20),
		UploadPhotoExtensions:  getEnvAsList("UPLOAD_PHOTO_EXTENSIONS", ".jpg,.jpeg,.png,.webp"),
		UploadCVExtensions:     getEnvAsList("UPLOAD_CV_EXTENSIONS", ".pdf,.doc,.docx"),
		UploadOtherExtensions:  getEnvAsList("UPLOAD_OTHER_EXTENSIONS", ".pdf,.doc,.docx,.jpg,.jpeg,.png"),
		UploadPresignedURLMins: getEnvAsInt("UPLOAD_PRESIGNED_URL_MINUTES", 60),

		// Empty means every status is listed.
		ListingVisibleStatuses: getEnvAsList("LISTING_VISIBLE_STATUSES", ""),
		ListingJobTypeMode:     getEnv("LISTING_JOB_TYPE_MODE", "keyword"),
		ListingCacheTTLSeconds: getEnvAsInt("LISTING_CACHE_TTL_SECONDS", 60),
	}

	log.Println("Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpireHours) * time.Hour
}

func (c *Config) RefreshExpiry() time.Duration {
	return time.Duration(c.JWTRefreshExpireDays) * 24 * time.Hour
}

func (c *Config) ListingCacheTTL() time.Duration {
	return time.Duration(c.ListingCacheTTLSeconds) * time.Second
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key, defaultValue string) []string {
	return splitList(getEnv(key, defaultValue))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseSize understands plain byte counts and KB/MB/GB suffixes
func parseSize(raw string, defaultValue int64) int64 {
	s := strings.ToUpper(strings.TrimSpace(raw))
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier, s = 1<<30, strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier, s = 1<<20, strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier, s = 1<<10, strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n * multiplier
}
