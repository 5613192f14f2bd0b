package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	sharedConfig "placify-backend/shared/config"
)

type NotificationConfig struct {
	*sharedConfig.Config

	WebSocket WebSocketConfig
}

// WebSocketConfig tunes the live push connections
type WebSocketConfig struct {
	AllowedOrigins  []string
	PingInterval    time.Duration
	WriteTimeout    time.Duration
	SendBuffer      int
	MaxConnsPerUser int
}

var notificationConfig *NotificationConfig

func LoadNotificationConfig() *NotificationConfig {
	if notificationConfig != nil {
		return notificationConfig
	}

	baseConfig := sharedConfig.GetConfig()

	origins := []string{baseConfig.FrontendURL}
	if extra := getEnv("WS_ALLOWED_ORIGINS", ""); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	notificationConfig = &NotificationConfig{
		Config: baseConfig,
		WebSocket: WebSocketConfig{
			AllowedOrigins:  origins,
			PingInterval:    time.Duration(getEnvAsInt("WS_PING_INTERVAL_SECONDS", 30)) * time.Second,
			WriteTimeout:    time.Duration(getEnvAsInt("WS_WRITE_TIMEOUT_SECONDS", 10)) * time.Second,
			SendBuffer:      getEnvAsInt("WS_SEND_BUFFER", 64),
			MaxConnsPerUser: getEnvAsInt("WS_MAX_CONNECTIONS_PER_USER", 5),
		},
	}

	return notificationConfig
}

func GetNotificationConfig() *NotificationConfig {
	if notificationConfig == nil {
		return LoadNotificationConfig()
	}
	return notificationConfig
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
