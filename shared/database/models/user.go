package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the marketplace role a user picks during onboarding.
// An empty role means onboarding has not happened yet.
type Role string

const (
	RoleUnset      Role = ""
	RoleStudent    Role = "student"
	RoleCompany    Role = "company"
	RoleUniversity Role = "university"
	RoleAdmin      Role = "admin"
)

// OnboardingRoles are the roles a user may choose for themselves.
var OnboardingRoles = []Role{RoleStudent, RoleCompany, RoleUniversity}

// ParseOnboardingRole returns the role and whether it can be chosen during onboarding
func ParseOnboardingRole(s string) (Role, bool) {
	for _, r := range OnboardingRoles {
		if string(r) == s {
			return r, true
		}
	}
	return RoleUnset, false
}

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"size:200"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Image     string    `json:"image"`
	Role      Role      `json:"role" gorm:"size:20;not null;default:''"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsOnboarded() bool {
	return u.Role != RoleUnset
}
