package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

type Application struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID    uuid.UUID         `json:"student_id" gorm:"type:uuid;not null;index"`
	InternshipID uuid.UUID         `json:"internship_id" gorm:"type:uuid;not null;index"`
	Status       ApplicationStatus `json:"status" gorm:"size:20;not null;default:'pending'"`
	CoverLetter  string            `json:"cover_letter" gorm:"type:text"`
	Notes        string            `json:"notes" gorm:"type:text"`
	Feedback     string            `json:"feedback" gorm:"type:text"`
	AppliedAt    time.Time         `json:"applied_at" gorm:"not null;index"`
	ReviewedAt   *time.Time        `json:"reviewed_at"`
	ReviewedBy   *uuid.UUID        `json:"reviewed_by" gorm:"type:uuid"`

	Student    *Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Internship *Internship `json:"internship,omitempty" gorm:"foreignKey:InternshipID"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}
	return nil
}
