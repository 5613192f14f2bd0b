package onboarding

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
)

// GormStore runs onboarding against PostgreSQL
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

func (s *GormStore) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) LockUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserRole only writes when no role is set yet
func (t *gormTx) SetUserRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	res := t.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", id, models.RoleUnset).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return apperrors.AlreadyOnboarded()
	}
	return nil
}

func (t *gormTx) UniversityExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&models.University{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (t *gormTx) CreateUniversity(ctx context.Context, u *models.University) error {
	return t.db.WithContext(ctx).Create(u).Error
}

func (t *gormTx) CreateStudent(ctx context.Context, s *models.Student) error {
	return t.db.WithContext(ctx).Create(s).Error
}

func (t *gormTx) CreateCompany(ctx context.Context, c *models.Company) error {
	return t.db.WithContext(ctx).Create(c).Error
}

func (t *gormTx) CreateCompanyUser(ctx context.Context, m *models.CompanyUser) error {
	return t.db.WithContext(ctx).Omit("Company").Create(m).Error
}

func (t *gormTx) CreateUniversityUser(ctx context.Context, m *models.UniversityUser) error {
	return t.db.WithContext(ctx).Omit("University").Create(m).Error
}
