package applications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/utils/query"
)

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

func (s *GormStore) StudentByUser(ctx context.Context, userID uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Forbidden("student profile required")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load student", err)
	}
	return &student, nil
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

// CompanyOwner returns the user who onboarded the company
func (s *GormStore) CompanyOwner(ctx context.Context, companyID uuid.UUID) (uuid.UUID, error) {
	var member models.CompanyUser
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND is_owner = ?", companyID, true).
		Order("created_at ASC").
		First(&member).Error
	if err != nil {
		return uuid.Nil, err
	}
	return member.UserID, nil
}

func (s *GormStore) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]StudentApplication, error) {
	var rows []StudentApplication
	err := s.db.WithContext(ctx).
		Table("applications").
		Select("applications.*, internships.title AS internship_title, COALESCE(companies.name, '') AS company_name").
		Joins("JOIN internships ON internships.id = applications.internship_id").
		Joins("LEFT JOIN companies ON companies.id = internships.company_id").
		Where("applications.student_id = ?", studentID).
		Order("applications.applied_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormStore) ListForCompany(ctx context.Context, companyID uuid.UUID, internshipID *uuid.UUID, p query.ListParams) ([]models.Application, int64, error) {
	q := s.db.WithContext(ctx).
		Model(&models.Application{}).
		Joins("JOIN internships ON internships.id = applications.internship_id").
		Where("internships.company_id = ?", companyID)
	if internshipID != nil {
		q = q.Where("applications.internship_id = ?", *internshipID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Application
	err := query.ApplyPagination(q, p).
		Preload("Student").
		Preload("Internship").
		Order("applications.applied_at DESC").
		Find(&list).Error
	return list, total, err
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) LockInternship(ctx context.Context, id uuid.UUID) (*models.Internship, error) {
	var internship models.Internship
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&internship, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("internship")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load internship", err)
	}
	return &internship, nil
}

func (t *gormTx) HasOpenApplication(ctx context.Context, studentID, internshipID uuid.UUID) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("student_id = ? AND internship_id = ? AND status <> ?", studentID, internshipID, models.ApplicationWithdrawn).
		Count(&count).Error
	return count > 0, err
}

func (t *gormTx) CreateApplication(ctx context.Context, a *models.Application) error {
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (t *gormTx) AdjustApplicants(ctx context.Context, internshipID uuid.UUID, delta int) error {
	return t.db.WithContext(ctx).
		Model(&models.Internship{}).
		Where("id = ?", internshipID).
		UpdateColumn("current_applicants", gorm.Expr("GREATEST(current_applicants + ?, 0)", delta)).Error
}

func (t *gormTx) LockApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("application")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load application", err)
	}

	var internship models.Internship
	if err := t.db.WithContext(ctx).First(&internship, "id = ?", app.InternshipID).Error; err == nil {
		app.Internship = &internship
	}
	var student models.Student
	if err := t.db.WithContext(ctx).First(&student, "id = ?", app.StudentID).Error; err == nil {
		app.Student = &student
	}
	return &app, nil
}

func (t *gormTx) SaveApplication(ctx context.Context, a *models.Application) error {
	return t.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}
