// Package profile serves the student's own profile page.
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/utils/auth"
)

type Store interface {
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
	Student(ctx context.Context, userID uuid.UUID) (*models.Student, error)
	UniversityExists(ctx context.Context, id uuid.UUID) (bool, error)
	SaveStudent(ctx context.Context, s *models.Student) error
	SetUserName(ctx context.Context, id uuid.UUID, name string) error
}

// View is what GET /api/student/profile returns
type View struct {
	User    *models.User    `json:"user"`
	Student *models.Student `json:"student"`
}

// Input carries the editable fields. Nil fields stay unchanged.
type Input struct {
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Phone        *string    `json:"phone"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Address      *string    `json:"address"`
	UniversityID *uuid.UUID `json:"university_id"`
	Course       *string    `json:"course"`
	YearOfStudy  *int       `json:"year_of_study"`
	GPA          *string    `json:"gpa"`
	Skills       *string    `json:"skills"`
	Bio          *string    `json:"bio"`
	PortfolioURL *string    `json:"portfolio_url"`
	LinkedinURL  *string    `json:"linkedin_url"`
	GithubURL    *string    `json:"github_url"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, p auth.Principal) (*View, error) {
	user, err := s.store.User(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	student, err := s.store.Student(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return &View{User: user, Student: student}, nil
}

func (s *Service) Update(ctx context.Context, p auth.Principal, in Input) (*View, error) {
	view, err := s.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	st := view.Student

	fields := map[string]string{}
	if in.Phone != nil {
		if err := auth.ValidatePhone(strings.TrimSpace(*in.Phone)); err != nil {
			fields["phone"] = err.Error()
		}
	}
	if in.YearOfStudy != nil && (*in.YearOfStudy < 1 || *in.YearOfStudy > 10) {
		fields["year_of_study"] = "must be between 1 and 10"
	}
	if in.UniversityID != nil {
		ok, err := s.store.UniversityExists(ctx, *in.UniversityID)
		if err != nil {
			return nil, apperrors.Internal("failed to look up university", err)
		}
		if !ok {
			fields["university_id"] = "unknown university"
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid profile", fields)
	}

	set(&st.FirstName, in.FirstName)
	set(&st.LastName, in.LastName)
	set(&st.Phone, in.Phone)
	set(&st.Address, in.Address)
	set(&st.Course, in.Course)
	set(&st.GPA, in.GPA)
	set(&st.Skills, in.Skills)
	set(&st.Bio, in.Bio)
	set(&st.PortfolioURL, in.PortfolioURL)
	set(&st.LinkedinURL, in.LinkedinURL)
	set(&st.GithubURL, in.GithubURL)
	if in.DateOfBirth != nil {
		st.DateOfBirth = in.DateOfBirth
	}
	if in.YearOfStudy != nil {
		st.YearOfStudy = in.YearOfStudy
	}
	if in.UniversityID != nil {
		st.UniversityID = in.UniversityID
		st.University = nil
	}
	st.IsProfileComplete = st.FirstName != "" && st.LastName != "" && st.UniversityID != nil

	if err := s.store.SaveStudent(ctx, st); err != nil {
		return nil, apperrors.Internal("failed to save profile", err)
	}

	if name := strings.TrimSpace(st.FirstName + " " + st.LastName); name != "" && name != view.User.Name {
		if err := s.store.SetUserName(ctx, view.User.ID, name); err != nil {
			return nil, apperrors.Internal("failed to update user name", err)
		}
		view.User.Name = name
	}
	return view, nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

func (s *GormStore) Student(ctx context.Context, userID uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := s.db.WithContext(ctx).Preload("University").Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("student profile")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load student profile", err)
	}
	return &student, nil
}

func (s *GormStore) UniversityExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.University{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) SaveStudent(ctx context.Context, st *models.Student) error {
	return s.db.WithContext(ctx).Omit("University").Save(st).Error
}

func (s *GormStore) SetUserName(ctx context.Context, id uuid.UUID, name string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("name", name).Error
}
