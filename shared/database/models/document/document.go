package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentType string

const (
	DocumentTypePhoto       DocumentType = "photo"
	DocumentTypeCV          DocumentType = "cv"
	DocumentTypeCoverLetter DocumentType = "cover_letter"
	DocumentTypeCertificate DocumentType = "certificate"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypePhoto, DocumentTypeCV, DocumentTypeCoverLetter, DocumentTypeCertificate:
		return true
	}
	return false
}

// Document represents an uploaded file owned by a user
type Document struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	ApplicationID *uuid.UUID   `gorm:"type:uuid;index" json:"application_id,omitempty"`
	DocumentType  DocumentType `gorm:"size:30;not null" json:"document_type"`

	// File information
	FileName      string `gorm:"not null" json:"file_name"`
	FileSize      int64  `gorm:"not null" json:"file_size"`
	MimeType      string `gorm:"not null" json:"mime_type"`
	FileExtension string `gorm:"not null" json:"file_extension"`

	// Storage
	BucketName string `gorm:"not null" json:"bucket_name"`
	ObjectKey  string `gorm:"not null;unique" json:"object_key"`
	FileURL    string `gorm:"not null" json:"file_url"`

	CreatedAt time.Time      `json:"uploaded_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
