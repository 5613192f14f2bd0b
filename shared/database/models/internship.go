package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InternshipStatus string

const (
	InternshipDraft    InternshipStatus = "draft"
	InternshipActive   InternshipStatus = "active"
	InternshipClosed   InternshipStatus = "closed"
	InternshipArchived InternshipStatus = "archived"
)

func (s InternshipStatus) Valid() bool {
	switch s {
	case InternshipDraft, InternshipActive, InternshipClosed, InternshipArchived:
		return true
	}
	return false
}

// JobType is the explicit posting category. Older rows leave it empty.
type JobType string

const (
	JobTypeInternship JobType = "internship"
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeRemote     JobType = "remote"
)

var JobTypes = []JobType{JobTypeInternship, JobTypeFullTime, JobTypePartTime, JobTypeRemote}

func (j JobType) Valid() bool {
	for _, t := range JobTypes {
		if t == j {
			return true
		}
	}
	return false
}

var ExperienceLevels = []string{"fresher", "entry", "mid", "senior", "lead"}

type Internship struct {
	ID                  uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID           uuid.UUID        `json:"company_id" gorm:"type:uuid;not null;index"`
	Title               string           `json:"title" gorm:"size:200;not null"`
	Description         string           `json:"description" gorm:"type:text;not null"`
	Requirements        string           `json:"requirements" gorm:"type:text"`
	Responsibilities    string           `json:"responsibilities" gorm:"type:text"`
	Skills              string           `json:"skills" gorm:"type:text"`
	Location            string           `json:"location" gorm:"size:200"`
	IsRemote            bool             `json:"is_remote" gorm:"default:false"`
	JobType             JobType          `json:"job_type" gorm:"size:20"`
	DurationWeeks       int              `json:"duration_weeks"`
	StartDate           *time.Time       `json:"start_date"`
	EndDate             *time.Time       `json:"end_date"`
	ApplicationDeadline *time.Time       `json:"application_deadline"`
	MaxApplicants       int              `json:"max_applicants"`
	CurrentApplicants   int              `json:"current_applicants" gorm:"default:0"`
	Status              InternshipStatus `json:"status" gorm:"size:20;not null;default:'draft';index"`
	IsPaid              bool             `json:"is_paid" gorm:"default:false"`
	Salary              string           `json:"salary" gorm:"size:100"`
	Benefits            string           `json:"benefits" gorm:"type:text"`
	Category            string           `json:"category" gorm:"size:100"`
	ExperienceLevel     string           `json:"experience_level" gorm:"size:20"`
	IsFeatured          bool             `json:"is_featured" gorm:"default:false"`
	ViewCount           int              `json:"view_count" gorm:"default:0"`
	CreatedAt           time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt           time.Time        `json:"updated_at"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

func (i *Internship) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AcceptsApplications reports whether a student may still apply at the given time
func (i *Internship) AcceptsApplications(now time.Time) bool {
	if i.Status != InternshipActive {
		return false
	}
	if i.ApplicationDeadline != nil && now.After(*i.ApplicationDeadline) {
		return false
	}
	if i.MaxApplicants > 0 && i.CurrentApplicants >= i.MaxApplicants {
		return false
	}
	return true
}
