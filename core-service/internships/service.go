// Package internships lets company members publish and maintain their postings.
package internships

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/logger"
	"placify-backend/shared/utils/auth"
)

type Store interface {
	// Membership returns the caller's company link or a NOT_FOUND error
	Membership(ctx context.Context, userID uuid.UUID) (*models.CompanyUser, error)
	Create(ctx context.Context, i *models.Internship) error
	Get(ctx context.Context, id uuid.UUID) (*models.Internship, error)
	Save(ctx context.Context, i *models.Internship) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Internship, error)
	// View loads the posting with its company and bumps view_count
	View(ctx context.Context, id uuid.UUID) (*models.Internship, error)
}

// Invalidator is told whenever the public catalogue changes
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Input carries the editable fields. Nil fields are left untouched on update.
type Input struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	Requirements        *string    `json:"requirements"`
	Responsibilities    *string    `json:"responsibilities"`
	Skills              *string    `json:"skills"`
	Location            *string    `json:"location"`
	IsRemote            *bool      `json:"is_remote"`
	JobType             *string    `json:"job_type"`
	DurationWeeks       *int       `json:"duration_weeks"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	MaxApplicants       *int       `json:"max_applicants"`
	IsPaid              *bool      `json:"is_paid"`
	Salary              *string    `json:"salary"`
	Benefits            *string    `json:"benefits"`
	Category            *string    `json:"category"`
	ExperienceLevel     *string    `json:"experience_level"`
	Status              *string    `json:"status"`
}

type Service struct {
	store   Store
	catalog Invalidator
}

func NewService(store Store, catalog Invalidator) *Service {
	return &Service{store: store, catalog: catalog}
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in Input) (*models.Internship, error) {
	member, err := s.store.Membership(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		fields["title"] = "is required"
	}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		fields["description"] = "is required"
	}

	internship := &models.Internship{CompanyID: member.CompanyID, Status: models.InternshipDraft}
	apply(internship, in, fields)
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid internship", fields)
	}

	if err := s.store.Create(ctx, internship); err != nil {
		return nil, apperrors.Internal("failed to create internship", err)
	}

	s.changed(ctx, internship, "created")
	return internship, nil
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id uuid.UUID, in Input) (*models.Internship, error) {
	internship, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		fields["title"] = "must not be empty"
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		fields["description"] = "must not be empty"
	}
	apply(internship, in, fields)
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid internship", fields)
	}

	if err := s.store.Save(ctx, internship); err != nil {
		return nil, apperrors.Internal("failed to update internship", err)
	}

	s.changed(ctx, internship, "updated")
	return internship, nil
}

func (s *Service) SetStatus(ctx context.Context, p auth.Principal, id uuid.UUID, status string) (*models.Internship, error) {
	next := models.InternshipStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, apperrors.ValidationField("status", "must be one of draft, active, closed, archived")
	}

	internship, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if internship.Status == next {
		return internship, nil
	}

	internship.Status = next
	if err := s.store.Save(ctx, internship); err != nil {
		return nil, apperrors.Internal("failed to update internship status", err)
	}

	s.changed(ctx, internship, "status changed")
	return internship, nil
}

// ListOwn returns the caller's company postings, newest first
func (s *Service) ListOwn(ctx context.Context, p auth.Principal) ([]models.Internship, error) {
	member, err := s.store.Membership(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListByCompany(ctx, member.CompanyID)
	if err != nil {
		return nil, apperrors.Internal("failed to list internships", err)
	}
	return list, nil
}

// View is the public detail page
func (s *Service) View(ctx context.Context, id uuid.UUID) (*models.Internship, error) {
	return s.store.View(ctx, id)
}

func (s *Service) owned(ctx context.Context, p auth.Principal, id uuid.UUID) (*models.Internship, error) {
	member, err := s.store.Membership(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	internship, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if internship.CompanyID != member.CompanyID {
		return nil, apperrors.Forbidden("internship belongs to another company")
	}
	return internship, nil
}

func (s *Service) changed(ctx context.Context, i *models.Internship, what string) {
	logger.FromContext(ctx).Info("internship "+what,
		zap.String("internship_id", i.ID.String()),
		zap.String("status", string(i.Status)),
	)
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
}

// apply copies set fields onto i, recording problems in fields
func apply(i *models.Internship, in Input, fields map[string]string) {
	setString(&i.Title, in.Title)
	setString(&i.Description, in.Description)
	setString(&i.Requirements, in.Requirements)
	setString(&i.Responsibilities, in.Responsibilities)
	setString(&i.Skills, in.Skills)
	setString(&i.Location, in.Location)
	setString(&i.Salary, in.Salary)
	setString(&i.Benefits, in.Benefits)
	setString(&i.Category, in.Category)

	if in.IsRemote != nil {
		i.IsRemote = *in.IsRemote
	}
	if in.IsPaid != nil {
		i.IsPaid = *in.IsPaid
	}
	if in.StartDate != nil {
		i.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		i.EndDate = in.EndDate
	}
	if in.ApplicationDeadline != nil {
		i.ApplicationDeadline = in.ApplicationDeadline
	}

	if in.DurationWeeks != nil {
		if *in.DurationWeeks < 0 {
			fields["duration_weeks"] = "must not be negative"
		} else {
			i.DurationWeeks = *in.DurationWeeks
		}
	}
	if in.MaxApplicants != nil {
		if *in.MaxApplicants < 0 {
			fields["max_applicants"] = "must not be negative"
		} else {
			i.MaxApplicants = *in.MaxApplicants
		}
	}

	if in.JobType != nil {
		jt := models.JobType(strings.ToLower(strings.TrimSpace(*in.JobType)))
		switch {
		case jt == "":
			i.JobType = ""
		case !jt.Valid():
			fields["job_type"] = "must be one of internship, full-time, part-time, remote"
		default:
			i.JobType = jt
			if jt == models.JobTypeRemote {
				i.IsRemote = true
			}
		}
	}

	if in.ExperienceLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*in.ExperienceLevel))
		if level != "" && !validLevel(level) {
			fields["experience_level"] = "must be one of " + strings.Join(models.ExperienceLevels, ", ")
		} else {
			i.ExperienceLevel = level
		}
	}

	if in.Status != nil {
		status := models.InternshipStatus(strings.ToLower(strings.TrimSpace(*in.Status)))
		if !status.Valid() {
			fields["status"] = "must be one of draft, active, closed, archived"
		} else {
			i.Status = status
		}
	}

	if i.StartDate != nil && i.EndDate != nil && i.EndDate.Before(*i.StartDate) {
		fields["end_date"] = "must not be before start_date"
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func validLevel(level string) bool {
	for _, l := range models.ExperienceLevels {
		if l == level {
			return true
		}
	}
	return false
}
