package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/clients"
	"placify-backend/shared/database/models/notification"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/utils/auth"
	"placify-backend/shared/utils/query"
)

// Repository persists notifications
type Repository interface {
	Create(ctx context.Context, n *notification.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params query.ListParams) ([]notification.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (*notification.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

// Pusher delivers to live connections and reports how many received the message
type Pusher interface {
	SendToUser(userID uuid.UUID, message notification.WebSocketMessage) int
}

type NotificationService struct {
	repo   Repository
	pusher Pusher
	now    func() time.Time
}

func NewNotificationService(repo Repository, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, now: time.Now}
}

var knownTypes = map[string]bool{
	notification.TypeApplication:  true,
	notification.TypeStatusUpdate: true,
	notification.TypeGeneral:      true,
}

var knownLevels = map[notification.NotificationLevel]bool{
	notification.NotificationLevelSuccess: true,
	notification.NotificationLevelError:   true,
	notification.NotificationLevelWarning: true,
	notification.NotificationLevelInfo:    true,
}

// Send stores the notification and pushes it to every open connection of the recipient
func (s *NotificationService) Send(ctx context.Context, req clients.SendRequest) (*notification.Notification, error) {
	fields := map[string]string{}
	if req.UserID == uuid.Nil {
		fields["user_id"] = "is required"
	}
	req.Type = strings.TrimSpace(req.Type)
	if !knownTypes[req.Type] {
		fields["type"] = "must be one of application, status_update, general"
	}
	if req.Level == "" {
		req.Level = notification.NotificationLevelInfo
	}
	if !knownLevels[req.Level] {
		fields["level"] = "must be one of info, success, warning, error"
	}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid notification", fields)
	}

	n := &notification.Notification{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Type:      req.Type,
		Level:     req.Level,
		Title:     req.Title,
		Message:   req.Message,
		CreatedAt: s.now(),
	}
	if len(req.Data) > 0 {
		raw, err := json.Marshal(req.Data)
		if err != nil {
			return nil, apperrors.ValidationField("data", "must be a JSON object")
		}
		n.Data = raw
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperrors.Internal("failed to save notification", err)
	}

	delivered := 0
	if s.pusher != nil {
		delivered = s.pusher.SendToUser(n.UserID, n.ToWebSocketMessage())
	}
	metrics.RecordNotification(n.Type, delivered > 0)

	logger.FromContext(ctx).Debug("notification stored",
		zap.String("user_id", n.UserID.String()),
		zap.String("type", n.Type),
		zap.Int("live_connections", delivered))
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, p auth.Principal, unreadOnly bool, params query.ListParams) ([]notification.Notification, query.Pagination, error) {
	items, total, err := s.repo.List(ctx, p.UserID, unreadOnly, params)
	if err != nil {
		return nil, query.Pagination{}, apperrors.Internal("failed to list notifications", err)
	}
	return items, query.NewPagination(params, total), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, p auth.Principal) (int64, error) {
	n, err := s.repo.UnreadCount(ctx, p.UserID)
	if err != nil {
		return 0, apperrors.Internal("failed to count notifications", err)
	}
	return n, nil
}

// MarkRead marks one of the caller's notifications read. Notifications of other users are NotFound.
func (s *NotificationService) MarkRead(ctx context.Context, p auth.Principal, id uuid.UUID) (*notification.Notification, error) {
	return s.repo.MarkRead(ctx, p.UserID, id, s.now())
}

func (s *NotificationService) MarkAllRead(ctx context.Context, p auth.Principal) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, p.UserID, s.now())
	if err != nil {
		return 0, apperrors.Internal("failed to update notifications", err)
	}
	return n, nil
}
