package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID            uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	FirstName         string     `json:"first_name" gorm:"size:100"`
	LastName          string     `json:"last_name" gorm:"size:100"`
	Phone             string     `json:"phone" gorm:"size:50"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	Address           string     `json:"address"`
	UniversityID      *uuid.UUID `json:"university_id" gorm:"type:uuid;index"`
	Course            string     `json:"course" gorm:"size:200"`
	YearOfStudy       *int       `json:"year_of_study"`
	GPA               string     `json:"gpa" gorm:"size:10"`
	Skills            string     `json:"skills" gorm:"type:text"`
	Bio               string     `json:"bio" gorm:"type:text"`
	CVURL             string     `json:"cv_url"`
	PortfolioURL      string     `json:"portfolio_url"`
	LinkedinURL       string     `json:"linkedin_url"`
	GithubURL         string     `json:"github_url"`
	IsProfileComplete bool       `json:"is_profile_complete" gorm:"default:false"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	University *University `json:"university,omitempty" gorm:"foreignKey:UniversityID"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
