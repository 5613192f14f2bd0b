// Package applications tracks student applications from submission to review.
package applications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/clients"
	"placify-backend/shared/database/models"
	"placify-backend/shared/database/models/notification"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/utils/auth"
	"placify-backend/shared/utils/query"
)

// Tx holds the writes of one application change
type Tx interface {
	LockInternship(ctx context.Context, id uuid.UUID) (*models.Internship, error)
	HasOpenApplication(ctx context.Context, studentID, internshipID uuid.UUID) (bool, error)
	CreateApplication(ctx context.Context, a *models.Application) error
	AdjustApplicants(ctx context.Context, internshipID uuid.UUID, delta int) error
	// LockApplication loads the application with its internship and student
	LockApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	SaveApplication(ctx context.Context, a *models.Application) error
}

type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	StudentByUser(ctx context.Context, userID uuid.UUID) (*models.Student, error)
	Membership(ctx context.Context, userID uuid.UUID) (*models.CompanyUser, error)
	CompanyOwner(ctx context.Context, companyID uuid.UUID) (uuid.UUID, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]StudentApplication, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID, internshipID *uuid.UUID, p query.ListParams) ([]models.Application, int64, error)
}

// Notifier is satisfied by *clients.NotificationClient
type Notifier interface {
	Send(ctx context.Context, req clients.SendRequest) error
}

// Catalog is told when applicant counts shown in the public listing change
type Catalog interface {
	Invalidate(ctx context.Context)
}

// StudentApplication is a dashboard row
type StudentApplication struct {
	models.Application
	InternshipTitle string `json:"internship_title"`
	CompanyName     string `json:"company_name"`
}

type ApplyInput struct {
	CoverLetter string `json:"cover_letter"`
}

type ReviewInput struct {
	Status   string `json:"status" binding:"required"`
	Feedback string `json:"feedback"`
	Notes    string `json:"notes"`
}

type Service struct {
	store    Store
	notifier Notifier
	catalog  Catalog
	now      func() time.Time
}

// NewService wires the tracker. catalog may be nil.
func NewService(store Store, notifier Notifier, catalog Catalog) *Service {
	return &Service{store: store, notifier: notifier, catalog: catalog, now: time.Now}
}

// Apply submits the caller's application and counts it against the posting in one transaction
func (s *Service) Apply(ctx context.Context, p auth.Principal, internshipID uuid.UUID, in ApplyInput) (*models.Application, error) {
	student, err := s.store.StudentByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	var (
		app        *models.Application
		internship *models.Internship
	)
	err = s.store.InTx(ctx, func(tx Tx) error {
		var err error
		internship, err = tx.LockInternship(ctx, internshipID)
		if err != nil {
			return err
		}
		if !internship.AcceptsApplications(s.now()) {
			return apperrors.Conflict("internship is not accepting applications")
		}

		open, err := tx.HasOpenApplication(ctx, student.ID, internship.ID)
		if err != nil {
			return apperrors.Internal("failed to check existing applications", err)
		}
		if open {
			return apperrors.Conflict("you have already applied to this internship")
		}

		app = &models.Application{
			StudentID:    student.ID,
			InternshipID: internship.ID,
			Status:       models.ApplicationPending,
			CoverLetter:  strings.TrimSpace(in.CoverLetter),
			AppliedAt:    s.now().UTC(),
		}
		if err := tx.CreateApplication(ctx, app); err != nil {
			return apperrors.Internal("failed to create application", err)
		}
		if err := tx.AdjustApplicants(ctx, internship.ID, 1); err != nil {
			return apperrors.Internal("failed to update applicant count", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApplicationEvent(string(models.ApplicationPending))
	s.countsChanged(ctx)
	logger.FromContext(ctx).Info("application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("internship_id", internship.ID.String()),
	)

	if owner, err := s.store.CompanyOwner(ctx, internship.CompanyID); err == nil {
		s.notify(ctx, clients.SendRequest{
			UserID:  owner,
			Type:    notification.TypeApplication,
			Level:   notification.NotificationLevelInfo,
			Title:   "New application",
			Message: fmt.Sprintf("A student applied to %s", internship.Title),
			Data:    map[string]interface{}{"application_id": app.ID, "internship_id": internship.ID},
		})
	}
	return app, nil
}

// Withdraw cancels a pending application of the caller
func (s *Service) Withdraw(ctx context.Context, p auth.Principal, id uuid.UUID) (*models.Application, error) {
	student, err := s.store.StudentByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	var app *models.Application
	err = s.store.InTx(ctx, func(tx Tx) error {
		var err error
		app, err = tx.LockApplication(ctx, id)
		if err != nil {
			return err
		}
		if app.StudentID != student.ID {
			return apperrors.NotFound("application")
		}
		if app.Status != models.ApplicationPending {
			return apperrors.Conflict("only pending applications can be withdrawn")
		}

		app.Status = models.ApplicationWithdrawn
		if err := tx.SaveApplication(ctx, app); err != nil {
			return apperrors.Internal("failed to withdraw application", err)
		}
		if err := tx.AdjustApplicants(ctx, app.InternshipID, -1); err != nil {
			return apperrors.Internal("failed to update applicant count", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApplicationEvent(string(models.ApplicationWithdrawn))
	s.countsChanged(ctx)
	return app, nil
}

// Review accepts or rejects a pending application to one of the caller's company postings
func (s *Service) Review(ctx context.Context, p auth.Principal, id uuid.UUID, in ReviewInput) (*models.Application, error) {
	next := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if next != models.ApplicationAccepted && next != models.ApplicationRejected {
		return nil, apperrors.ValidationField("status", "must be accepted or rejected")
	}

	member, err := s.store.Membership(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	var app *models.Application
	err = s.store.InTx(ctx, func(tx Tx) error {
		var err error
		app, err = tx.LockApplication(ctx, id)
		if err != nil {
			return err
		}
		if app.Internship == nil || app.Internship.CompanyID != member.CompanyID {
			return apperrors.NotFound("application")
		}
		if app.Status != models.ApplicationPending {
			return apperrors.Conflict(fmt.Sprintf("application is already %s", app.Status))
		}

		now := s.now().UTC()
		app.Status = next
		app.Feedback = strings.TrimSpace(in.Feedback)
		app.Notes = strings.TrimSpace(in.Notes)
		app.ReviewedAt = &now
		app.ReviewedBy = &p.UserID
		if err := tx.SaveApplication(ctx, app); err != nil {
			return apperrors.Internal("failed to review application", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApplicationEvent(string(next))

	if app.Student != nil {
		level := notification.NotificationLevelSuccess
		if next == models.ApplicationRejected {
			level = notification.NotificationLevelWarning
		}
		s.notify(ctx, clients.SendRequest{
			UserID:  app.Student.UserID,
			Type:    notification.TypeStatusUpdate,
			Level:   level,
			Title:   "Application " + string(next),
			Message: fmt.Sprintf("Your application for %s was %s", app.Internship.Title, next),
			Data:    map[string]interface{}{"application_id": app.ID, "status": next},
		})
	}
	return app, nil
}

// ListMine returns the caller's applications, newest first
func (s *Service) ListMine(ctx context.Context, p auth.Principal) ([]StudentApplication, error) {
	student, err := s.store.StudentByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListForStudent(ctx, student.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	return list, nil
}

// ListForCompany pages over applications to the caller's company postings
func (s *Service) ListForCompany(ctx context.Context, p auth.Principal, internshipID *uuid.UUID, params query.ListParams) ([]models.Application, query.Pagination, error) {
	member, err := s.store.Membership(ctx, p.UserID)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	list, total, err := s.store.ListForCompany(ctx, member.CompanyID, internshipID, params)
	if err != nil {
		return nil, query.Pagination{}, apperrors.Internal("failed to list applications", err)
	}
	return list, query.NewPagination(params, total), nil
}

func (s *Service) countsChanged(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
}

func (s *Service) notify(ctx context.Context, req clients.SendRequest) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, req); err != nil {
		metrics.RecordNotification(req.Type, false)
		logger.FromContext(ctx).Warn("notification not delivered",
			zap.String("user_id", req.UserID.String()),
			zap.Error(err),
		)
		return
	}
	metrics.RecordNotification(req.Type, true)
}
