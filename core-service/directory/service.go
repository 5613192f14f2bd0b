// Package directory lists universities and companies and computes landing page stats.
package directory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/logger"
	"placify-backend/shared/utils/cache"
	"placify-backend/shared/utils/query"
)

const statsKey = "listing:stats:v1"

type Stats struct {
	TotalInternships  int64 `json:"totalInternships"`
	TotalCompanies    int64 `json:"totalCompanies"`
	ActiveInternships int64 `json:"activeInternships"`
}

type Store interface {
	Universities(ctx context.Context, p query.ListParams) ([]models.University, int64, error)
	Companies(ctx context.Context, p query.ListParams) ([]models.Company, int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

type Service struct {
	store Store
	cache Cache
	ttl   time.Duration
}

// NewService builds the directory. Stats are cached under the listing namespace so catalogue
// invalidation clears them too.
func NewService(store Store, c Cache, ttl time.Duration) *Service {
	return &Service{store: store, cache: c, ttl: ttl}
}

func (s *Service) Universities(ctx context.Context, p query.ListParams) ([]models.University, query.Pagination, error) {
	list, total, err := s.store.Universities(ctx, p)
	if err != nil {
		return nil, query.Pagination{}, apperrors.Internal("failed to list universities", err)
	}
	return list, query.NewPagination(p, total), nil
}

func (s *Service) Companies(ctx context.Context, p query.ListParams) ([]models.Company, query.Pagination, error) {
	list, total, err := s.store.Companies(ctx, p)
	if err != nil {
		return nil, query.Pagination{}, apperrors.Internal("failed to list companies", err)
	}
	return list, query.NewPagination(p, total), nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		var cached Stats
		err := s.cache.GetJSON(ctx, statsKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) && !errors.Is(err, cache.ErrDisabled) {
			log.Warn("stats cache read failed", zap.Error(err))
		}
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to compute stats", err)
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, statsKey, stats, s.ttl); err != nil && !errors.Is(err, cache.ErrDisabled) {
			log.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var sortable = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

func (s *GormStore) Universities(ctx context.Context, p query.ListParams) ([]models.University, int64, error) {
	var (
		list  []models.University
		total int64
	)
	q := query.ApplySearch(s.db.WithContext(ctx).Model(&models.University{}), p.Search, "name")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.ApplyPagination(query.ApplySort(q, p.Sort, sortable), p).Find(&list).Error
	return list, total, err
}

func (s *GormStore) Companies(ctx context.Context, p query.ListParams) ([]models.Company, int64, error) {
	var (
		list  []models.Company
		total int64
	)
	q := query.ApplySearch(s.db.WithContext(ctx).Model(&models.Company{}), p.Search, "name", "industry", "city")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.ApplyPagination(query.ApplySort(q, p.Sort, sortable), p).Find(&list).Error
	return list, total, err
}

func (s *GormStore) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	var stats Stats

	if err := db.Model(&models.Internship{}).Count(&stats.TotalInternships).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Company{}).Count(&stats.TotalCompanies).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Internship{}).Where("status = ?", models.InternshipActive).Count(&stats.ActiveInternships).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
