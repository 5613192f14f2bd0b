package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/database/models/document"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, doc *document.Document, link ProfileLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		switch link {
		case LinkUserImage:
			return tx.Model(&models.User{}).Where("id = ?", doc.UserID).Update("image", doc.FileURL).Error
		case LinkStudentCV:
			// users without a student row simply keep the document
			return tx.Model(&models.Student{}).Where("user_id = ?", doc.UserID).Update("cv_url", doc.FileURL).Error
		}
		return nil
	})
}

func (r *GormRepository) Get(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var doc document.Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("document")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load document", err)
	}
	return &doc, nil
}

func (r *GormRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]document.Document, error) {
	var docs []document.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *GormRepository) Delete(ctx context.Context, doc *document.Document, link ProfileLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&document.Document{}, "id = ?", doc.ID).Error; err != nil {
			return err
		}
		switch link {
		case LinkUserImage:
			return tx.Model(&models.User{}).
				Where("id = ? AND image = ?", doc.UserID, doc.FileURL).
				Update("image", "").Error
		case LinkStudentCV:
			return tx.Model(&models.Student{}).
				Where("user_id = ? AND cv_url = ?", doc.UserID, doc.FileURL).
				Update("cv_url", "").Error
		}
		return nil
	})
}
