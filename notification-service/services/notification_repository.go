package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models/notification"
	"placify-backend/shared/utils/query"
)

var sortableColumns = map[string]string{
	"created_at": "created_at",
	"type":       "type",
	"level":      "level",
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *GormRepository) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params query.ListParams) ([]notification.Notification, int64, error) {
	db := r.db.WithContext(ctx).Model(&notification.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}
	db = query.ApplySearch(db, params.Search, "title", "message")

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []notification.Notification
	db = query.ApplySort(db, params.Sort, sortableColumns)
	if err := query.ApplyPagination(db, params).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *GormRepository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (*notification.Notification, error) {
	var n notification.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("notification")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load notification", err)
	}
	if n.IsRead {
		return &n, nil
	}

	n.IsRead = true
	n.ReadAt = &at
	if err := r.db.WithContext(ctx).Model(&n).Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error; err != nil {
		return nil, apperrors.Internal("failed to update notification", err)
	}
	return &n, nil
}

func (r *GormRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}
