package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type University struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"size:200;not null;index"`
	Email       string    `json:"email" gorm:"size:200"`
	Phone       string    `json:"phone" gorm:"size:50"`
	Address     string    `json:"address"`
	Website     string    `json:"website"`
	Logo        string    `json:"logo"`
	Description string    `json:"description" gorm:"type:text"`
	IsVerified  bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *University) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Company struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"size:200;not null;index"`
	Email        string    `json:"email" gorm:"size:200"`
	Phone        string    `json:"phone" gorm:"size:50"`
	Website      string    `json:"website"`
	Logo         string    `json:"logo"`
	Description  string    `json:"description" gorm:"type:text"`
	Industry     string    `json:"industry" gorm:"size:100"`
	Size         string    `json:"size" gorm:"size:50"`
	Address      string    `json:"address"`
	City         string    `json:"city" gorm:"size:100"`
	Country      string    `json:"country" gorm:"size:100"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	Rating       float64   `json:"rating" gorm:"default:0"`
	TotalReviews int       `json:"total_reviews" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CompanyUser links a user to the company they represent
type CompanyUser struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	CompanyID  uuid.UUID `json:"company_id" gorm:"type:uuid;not null;index"`
	Position   string    `json:"position" gorm:"size:100"`
	Department string    `json:"department" gorm:"size:100"`
	IsOwner    bool      `json:"is_owner" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`

	Company Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

func (m *CompanyUser) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UniversityUser links a user to the university they work for
type UniversityUser struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	UniversityID uuid.UUID `json:"university_id" gorm:"type:uuid;not null;index"`
	Position     string    `json:"position" gorm:"size:100"`
	Department   string    `json:"department" gorm:"size:100"`
	CreatedAt    time.Time `json:"created_at"`

	University University `json:"university,omitempty" gorm:"foreignKey:UniversityID"`
}

func (m *UniversityUser) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
