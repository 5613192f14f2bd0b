package internships

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Membership(ctx context.Context, userID uuid.UUID) (*models.CompanyUser, error) {
	var member models.CompanyUser
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Forbidden("user is not a member of any company")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load company membership", err)
	}
	return &member, nil
}

func (s *GormStore) Create(ctx context.Context, i *models.Internship) error {
	return s.db.WithContext(ctx).Omit("Company").Create(i).Error
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*models.Internship, error) {
	var internship models.Internship
	err := s.db.WithContext(ctx).First(&internship, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("internship")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load internship", err)
	}
	return &internship, nil
}

func (s *GormStore) Save(ctx context.Context, i *models.Internship) error {
	return s.db.WithContext(ctx).Omit("Company").Save(i).Error
}

func (s *GormStore) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Internship, error) {
	var list []models.Internship
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (s *GormStore) View(ctx context.Context, id uuid.UUID) (*models.Internship, error) {
	db := s.db.WithContext(ctx)

	res := db.Model(&models.Internship{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return nil, apperrors.Internal("failed to record view", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("internship")
	}

	var internship models.Internship
	if err := db.Preload("Company").First(&internship, "id = ?", id).Error; err != nil {
		return nil, apperrors.Internal("failed to load internship", err)
	}
	return &internship, nil
}
