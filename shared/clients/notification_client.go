package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"placify-backend/shared/config"
	"placify-backend/shared/database/models/notification"
	"placify-backend/shared/logger"
)

const (
	SendPath            = "/api/notifications/send"
	internalTokenHeader = "X-Internal-Token"
)

// SendRequest is the body accepted by the notification service's internal send endpoint
type SendRequest struct {
	UserID  uuid.UUID                      `json:"user_id" binding:"required"`
	Type    string                         `json:"type" binding:"required"`
	Level   notification.NotificationLevel `json:"level"`
	Title   string                         `json:"title" binding:"required"`
	Message string                         `json:"message" binding:"required"`
	Data    map[string]interface{}         `json:"data,omitempty"`
}

// NotificationClient handles communication with notification service
type NotificationClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewNotificationClient creates a client for the given base URL and internal token
func NewNotificationClient(baseURL, token string) *NotificationClient {
	return &NotificationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func NewNotificationClientFromConfig(cfg *config.Config) *NotificationClient {
	return NewNotificationClient(cfg.NotificationServiceURL, cfg.InternalServiceToken)
}

// Send posts one notification. Callers treat failures as non-fatal.
func (nc *NotificationClient) Send(ctx context.Context, req SendRequest) error {
	if nc == nil || nc.baseURL == "" {
		return nil
	}
	if req.Level == "" {
		req.Level = notification.NotificationLevelInfo
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, nc.baseURL+SendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(internalTokenHeader, nc.token)
	if id := logger.RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set(logger.RequestIDKey, id)
	}

	resp, err := nc.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("notification service returned status: %d", resp.StatusCode)
	}
	return nil
}
