// Package onboarding assigns a marketplace role to a freshly registered user and creates
// the profile or organization that goes with it, all inside one transaction.
package onboarding

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/utils/auth"
)

// ErrNotFound is returned by Tx lookups for missing rows
var ErrNotFound = errors.New("record not found")

// Tx is the set of writes one onboarding needs. Every call runs inside the same transaction.
type Tx interface {
	// LockUser loads the user and holds a row lock until the transaction ends
	LockUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetUserRole(ctx context.Context, id uuid.UUID, role models.Role) error
	UniversityExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateUniversity(ctx context.Context, u *models.University) error
	CreateStudent(ctx context.Context, s *models.Student) error
	CreateCompany(ctx context.Context, c *models.Company) error
	CreateCompanyUser(ctx context.Context, m *models.CompanyUser) error
	CreateUniversityUser(ctx context.Context, m *models.UniversityUser) error
}

// Store runs units of work and answers read-only questions
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenIssuer is satisfied by *auth.TokenManager
type TokenIssuer interface {
	IssuePair(p auth.Principal) (auth.TokenPair, error)
}

type State string

const (
	StateRoleSelection State = "role_selection"
	StateCompleted     State = "completed"
)

type Status struct {
	State State       `json:"state"`
	Role  models.Role `json:"role,omitempty"`
}

type StudentData struct {
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Phone             string     `json:"phone"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	Address           string     `json:"address"`
	UniversityID      *uuid.UUID `json:"university_id"`
	NewUniversityName string     `json:"new_university_name"`
	Course            string     `json:"course"`
	YearOfStudy       *int       `json:"year_of_study"`
	GPA               string     `json:"gpa"`
	Skills            string     `json:"skills"`
	Bio               string     `json:"bio"`
	PortfolioURL      string     `json:"portfolio_url"`
	LinkedinURL       string     `json:"linkedin_url"`
	GithubURL         string     `json:"github_url"`
}

// CompanyData is the company form. Position belongs to the membership, the rest to the company.
type CompanyData struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Position    string `json:"position"`
}

// UniversityData is the university form. Position and department belong to the membership.
type UniversityData struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Position    string `json:"position"`
	Department  string `json:"department"`
}

// Input is the submitted form. Only the branch matching Role is read.
type Input struct {
	Role       string         `json:"role"`
	Student    StudentData    `json:"student"`
	Company    CompanyData    `json:"company"`
	University UniversityData `json:"university"`
}

type Result struct {
	Role           models.Role            `json:"role"`
	Student        *models.Student        `json:"student,omitempty"`
	Company        *models.Company        `json:"company,omitempty"`
	CompanyUser    *models.CompanyUser    `json:"company_user,omitempty"`
	University     *models.University     `json:"university,omitempty"`
	UniversityUser *models.UniversityUser `json:"university_user,omitempty"`
	Tokens         *auth.TokenPair        `json:"tokens,omitempty"`
}

type Service struct {
	store  Store
	tokens TokenIssuer
}

func NewService(store Store, tokens TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// Status reports whether the caller still has to pick a role
func (s *Service) Status(ctx context.Context, p auth.Principal) (*Status, error) {
	user, err := s.store.FindUser(ctx, p.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	if !user.IsOnboarded() {
		return &Status{State: StateRoleSelection}, nil
	}
	return &Status{State: StateCompleted, Role: user.Role}, nil
}

// CompleteOnboarding sets the caller's role and creates the matching records atomically.
// A user who already has a role gets an ALREADY_ONBOARDED error and nothing is written.
func (s *Service) CompleteOnboarding(ctx context.Context, p auth.Principal, in Input) (*Result, error) {
	log := logger.FromContext(ctx).With(zap.String("user_id", p.UserID.String()), zap.String("role", in.Role))

	role, ok := models.ParseOnboardingRole(strings.TrimSpace(in.Role))
	if !ok {
		metrics.RecordOnboarding("invalid", "rejected")
		return nil, apperrors.ValidationField("role", "must be one of student, company, university")
	}
	if err := validate(role, in); err != nil {
		metrics.RecordOnboarding(string(role), "rejected")
		return nil, err
	}

	result := &Result{Role: role}
	err := s.store.InTx(ctx, func(tx Tx) error {
		user, err := tx.LockUser(ctx, p.UserID)
		if errors.Is(err, ErrNotFound) {
			return apperrors.NotFound("user")
		}
		if err != nil {
			return apperrors.Internal("failed to load user", err)
		}
		if user.IsOnboarded() {
			return apperrors.AlreadyOnboarded()
		}

		if err := tx.SetUserRole(ctx, user.ID, role); err != nil {
			if apperrors.Is(err, apperrors.CodeAlreadyOnboarded) {
				return err
			}
			return apperrors.Internal("failed to assign role", err)
		}

		switch role {
		case models.RoleStudent:
			return onboardStudent(ctx, tx, user, in.Student, result)
		case models.RoleCompany:
			return onboardCompany(ctx, tx, user, in.Company, result)
		default:
			return onboardUniversity(ctx, tx, user, in.University, result)
		}
	})
	if err != nil {
		outcome := "failed"
		if apperrors.Is(err, apperrors.CodeAlreadyOnboarded) {
			outcome = "already_onboarded"
		}
		metrics.RecordOnboarding(string(role), outcome)
		log.Info("onboarding not completed", zap.Error(err))
		return nil, err
	}

	metrics.RecordOnboarding(string(role), "completed")
	log.Info("onboarding completed")

	if s.tokens != nil {
		pair, err := s.tokens.IssuePair(auth.Principal{UserID: p.UserID, Email: p.Email, Role: role})
		if err != nil {
			// The role is committed; the client can still refresh its session later.
			log.Error("failed to issue token after onboarding", zap.Error(err))
		} else {
			result.Tokens = &pair
		}
	}
	return result, nil
}

func validate(role models.Role, in Input) error {
	fields := map[string]string{}

	switch role {
	case models.RoleStudent:
		if err := auth.ValidatePhone(strings.TrimSpace(in.Student.Phone)); err != nil {
			fields["student.phone"] = err.Error()
		}
		if y := in.Student.YearOfStudy; y != nil && (*y < 1 || *y > 10) {
			fields["student.year_of_study"] = "must be between 1 and 10"
		}
	case models.RoleCompany:
		if strings.TrimSpace(in.Company.Name) == "" {
			fields["company.name"] = "is required"
		}
		if e := strings.TrimSpace(in.Company.Email); e != "" {
			if err := auth.ValidateEmail(e); err != nil {
				fields["company.email"] = err.Error()
			}
		}
	case models.RoleUniversity:
		if strings.TrimSpace(in.University.Name) == "" {
			fields["university.name"] = "is required"
		}
		if e := strings.TrimSpace(in.University.Email); e != "" {
			if err := auth.ValidateEmail(e); err != nil {
				fields["university.email"] = err.Error()
			}
		}
	}

	if len(fields) > 0 {
		return apperrors.Validation("invalid onboarding form", fields)
	}
	return nil
}

func onboardStudent(ctx context.Context, tx Tx, user *models.User, d StudentData, result *Result) error {
	var universityID *uuid.UUID

	if name := strings.TrimSpace(d.NewUniversityName); name != "" {
		university := &models.University{Name: name, IsVerified: false}
		if err := tx.CreateUniversity(ctx, university); err != nil {
			return apperrors.Internal("failed to create university", err)
		}
		universityID = &university.ID
		result.University = university
	} else if d.UniversityID != nil && *d.UniversityID != uuid.Nil {
		exists, err := tx.UniversityExists(ctx, *d.UniversityID)
		if err != nil {
			return apperrors.Internal("failed to look up university", err)
		}
		if !exists {
			return apperrors.NotFound("university")
		}
		universityID = d.UniversityID
	}

	student := &models.Student{
		UserID:            user.ID,
		FirstName:         strings.TrimSpace(d.FirstName),
		LastName:          strings.TrimSpace(d.LastName),
		Phone:             strings.TrimSpace(d.Phone),
		DateOfBirth:       d.DateOfBirth,
		Address:           strings.TrimSpace(d.Address),
		UniversityID:      universityID,
		Course:            strings.TrimSpace(d.Course),
		YearOfStudy:       d.YearOfStudy,
		GPA:               strings.TrimSpace(d.GPA),
		Skills:            strings.TrimSpace(d.Skills),
		Bio:               strings.TrimSpace(d.Bio),
		PortfolioURL:      strings.TrimSpace(d.PortfolioURL),
		LinkedinURL:       strings.TrimSpace(d.LinkedinURL),
		GithubURL:         strings.TrimSpace(d.GithubURL),
		IsProfileComplete: true,
	}
	if err := tx.CreateStudent(ctx, student); err != nil {
		return apperrors.Internal("failed to create student profile", err)
	}
	result.Student = student
	return nil
}

func onboardCompany(ctx context.Context, tx Tx, user *models.User, d CompanyData, result *Result) error {
	company := &models.Company{
		Name:        strings.TrimSpace(d.Name),
		Email:       strings.TrimSpace(d.Email),
		Phone:       strings.TrimSpace(d.Phone),
		Website:     strings.TrimSpace(d.Website),
		Description: strings.TrimSpace(d.Description),
		Industry:    strings.TrimSpace(d.Industry),
		Size:        strings.TrimSpace(d.Size),
		Address:     strings.TrimSpace(d.Address),
		City:        strings.TrimSpace(d.City),
		Country:     strings.TrimSpace(d.Country),
		IsVerified:  false,
	}
	if err := tx.CreateCompany(ctx, company); err != nil {
		return apperrors.Internal("failed to create company", err)
	}

	member := &models.CompanyUser{
		UserID:    user.ID,
		CompanyID: company.ID,
		Position:  strings.TrimSpace(d.Position),
		IsOwner:   true,
	}
	if err := tx.CreateCompanyUser(ctx, member); err != nil {
		return apperrors.Internal("failed to create company membership", err)
	}

	result.Company = company
	result.CompanyUser = member
	return nil
}

func onboardUniversity(ctx context.Context, tx Tx, user *models.User, d UniversityData, result *Result) error {
	university := &models.University{
		Name:        strings.TrimSpace(d.Name),
		Email:       strings.TrimSpace(d.Email),
		Phone:       strings.TrimSpace(d.Phone),
		Address:     strings.TrimSpace(d.Address),
		Website:     strings.TrimSpace(d.Website),
		Description: strings.TrimSpace(d.Description),
		IsVerified:  false,
	}
	if err := tx.CreateUniversity(ctx, university); err != nil {
		return apperrors.Internal("failed to create university", err)
	}

	member := &models.UniversityUser{
		UserID:       user.ID,
		UniversityID: university.ID,
		Position:     strings.TrimSpace(d.Position),
		Department:   strings.TrimSpace(d.Department),
	}
	if err := tx.CreateUniversityUser(ctx, member); err != nil {
		return apperrors.Internal("failed to create university membership", err)
	}

	result.University = university
	result.UniversityUser = member
	return nil
}
