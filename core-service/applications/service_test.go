package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/clients"
	"placify-backend/shared/database/models"
	"placify-backend/shared/database/models/notification"
	"placify-backend/shared/utils/auth"
	"placify-backend/shared/utils/query"
)

type fakeStore struct {
	students     map[uuid.UUID]models.Student // by user id
	members      map[uuid.UUID]models.CompanyUser
	internships  map[uuid.UUID]models.Internship
	applications map[uuid.UUID]models.Application
	failCreate   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students:     make(map[uuid.UUID]models.Student),
		members:      make(map[uuid.UUID]models.CompanyUser),
		internships:  make(map[uuid.UUID]models.Internship),
		applications: make(map[uuid.UUID]models.Application),
	}
}

// InTx works on copies and commits them only on success
func (s *fakeStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	tx := &fakeTx{
		store:        s,
		internships:  make(map[uuid.UUID]models.Internship, len(s.internships)),
		applications: make(map[uuid.UUID]models.Application, len(s.applications)),
	}
	for k, v := range s.internships {
		tx.internships[k] = v
	}
	for k, v := range s.applications {
		tx.applications[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.internships = tx.internships
	s.applications = tx.applications
	return nil
}

func (s *fakeStore) StudentByUser(_ context.Context, userID uuid.UUID) (*models.Student, error) {
	st, ok := s.students[userID]
	if !ok {
		return nil, apperrors.Forbidden("student profile required")
	}
	return &st, nil
}

func (s *fakeStore) Membership(_ context.Context, userID uuid.UUID) (*models.CompanyUser, error) {
	m, ok := s.members[userID]
	if !ok {
		return nil, apperrors.Forbidden("user is not a member of any company")
	}
	return &m, nil
}

func (s *fakeStore) CompanyOwner(_ context.Context, companyID uuid.UUID) (uuid.UUID, error) {
	for _, m := range s.members {
		if m.CompanyID == companyID && m.IsOwner {
			return m.UserID, nil
		}
	}
	return uuid.Nil, errors.New("no owner")
}

func (s *fakeStore) ListForStudent(_ context.Context, studentID uuid.UUID) ([]StudentApplication, error) {
	var out []StudentApplication
	for _, a := range s.applications {
		if a.StudentID == studentID {
			out = append(out, StudentApplication{Application: a, InternshipTitle: s.internships[a.InternshipID].Title})
		}
	}
	return out, nil
}

func (s *fakeStore) ListForCompany(_ context.Context, companyID uuid.UUID, internshipID *uuid.UUID, _ query.ListParams) ([]models.Application, int64, error) {
	var out []models.Application
	for _, a := range s.applications {
		if s.internships[a.InternshipID].CompanyID != companyID {
			continue
		}
		if internshipID != nil && a.InternshipID != *internshipID {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

type fakeTx struct {
	store        *fakeStore
	internships  map[uuid.UUID]models.Internship
	applications map[uuid.UUID]models.Application
}

func (t *fakeTx) LockInternship(_ context.Context, id uuid.UUID) (*models.Internship, error) {
	i, ok := t.internships[id]
	if !ok {
		return nil, apperrors.NotFound("internship")
	}
	return &i, nil
}

func (t *fakeTx) HasOpenApplication(_ context.Context, studentID, internshipID uuid.UUID) (bool, error) {
	for _, a := range t.applications {
		if a.StudentID == studentID && a.InternshipID == internshipID && a.Status != models.ApplicationWithdrawn {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) CreateApplication(_ context.Context, a *models.Application) error {
	if t.store.failCreate {
		return errors.New("insert failed")
	}
	a.ID = uuid.New()
	t.applications[a.ID] = *a
	return nil
}

func (t *fakeTx) AdjustApplicants(_ context.Context, id uuid.UUID, delta int) error {
	i := t.internships[id]
	i.CurrentApplicants += delta
	if i.CurrentApplicants < 0 {
		i.CurrentApplicants = 0
	}
	t.internships[id] = i
	return nil
}

func (t *fakeTx) LockApplication(_ context.Context, id uuid.UUID) (*models.Application, error) {
	a, ok := t.applications[id]
	if !ok {
		return nil, apperrors.NotFound("application")
	}
	i := t.internships[a.InternshipID]
	a.Internship = &i
	for _, st := range t.store.students {
		if st.ID == a.StudentID {
			st := st
			a.Student = &st
		}
	}
	return &a, nil
}

func (t *fakeTx) SaveApplication(_ context.Context, a *models.Application) error {
	cp := *a
	cp.Internship, cp.Student = nil, nil
	t.applications[a.ID] = cp
	return nil
}

type recordingNotifier struct {
	sent []clients.SendRequest
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, req clients.SendRequest) error {
	n.sent = append(n.sent, req)
	return n.err
}

type countingCatalog struct {
	invalidations int
}

func (c *countingCatalog) Invalidate(context.Context) {
	c.invalidations++
}

type fixture struct {
	svc        *Service
	store      *fakeStore
	notifier   *recordingNotifier
	catalog    *countingCatalog
	student    auth.Principal
	recruiter  auth.Principal
	internship models.Internship
	now        time.Time
}

func newFixture() *fixture {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	student := auth.Principal{UserID: uuid.New(), Role: models.RoleStudent}
	store.students[student.UserID] = models.Student{ID: uuid.New(), UserID: student.UserID}

	recruiter := auth.Principal{UserID: uuid.New(), Role: models.RoleCompany}
	companyID := uuid.New()
	store.members[recruiter.UserID] = models.CompanyUser{UserID: recruiter.UserID, CompanyID: companyID, IsOwner: true}

	internship := models.Internship{ID: uuid.New(), CompanyID: companyID, Title: "Backend Intern", Status: models.InternshipActive}
	store.internships[internship.ID] = internship

	catalog := &countingCatalog{}
	svc := NewService(store, notifier, catalog)
	svc.now = func() time.Time { return now }

	return &fixture{svc: svc, store: store, notifier: notifier, catalog: catalog, student: student, recruiter: recruiter, internship: internship, now: now}
}

func TestApplyCountsAndNotifies(t *testing.T) {
	f := newFixture()

	app, err := f.svc.Apply(context.Background(), f.student, f.internship.ID, ApplyInput{CoverLetter: " Hello "})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, "Hello", app.CoverLetter)
	assert.Equal(t, f.now, app.AppliedAt)
	assert.Equal(t, 1, f.store.internships[f.internship.ID].CurrentApplicants)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.recruiter.UserID, f.notifier.sent[0].UserID)
	assert.Equal(t, notification.TypeApplication, f.notifier.sent[0].Type)
}

func TestApplicantCountChangesRefreshListing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.catalog.invalidations)

	_, err = f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.Error(t, err)
	assert.Equal(t, 1, f.catalog.invalidations, "rejected apply leaves the cache alone")

	_, err = f.svc.Withdraw(ctx, f.student, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.catalog.invalidations)
}

func TestApplyTwiceConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	assert.Equal(t, 1, f.store.internships[f.internship.ID].CurrentApplicants)
}

func TestApplyAfterWithdrawIsAllowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = f.svc.Withdraw(ctx, f.student, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.internships[f.internship.ID].CurrentApplicants)

	_, err = f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.NoError(t, err)
}

func TestApplyRejectsClosedPostings(t *testing.T) {
	past := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		mutate func(i *models.Internship)
	}{
		{"draft", func(i *models.Internship) { i.Status = models.InternshipDraft }},
		{"deadline passed", func(i *models.Internship) { i.ApplicationDeadline = &past }},
		{"full", func(i *models.Internship) { i.MaxApplicants = 2; i.CurrentApplicants = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			i := f.store.internships[f.internship.ID]
			tt.mutate(&i)
			f.store.internships[i.ID] = i

			_, err := f.svc.Apply(context.Background(), f.student, i.ID, ApplyInput{})
			assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
			assert.Empty(t, f.store.applications)
		})
	}
}

func TestApplyRequiresStudentProfile(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Apply(context.Background(), f.recruiter, f.internship.ID, ApplyInput{})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestApplyFailureRollsBack(t *testing.T) {
	f := newFixture()
	f.store.failCreate = true

	_, err := f.svc.Apply(context.Background(), f.student, f.internship.ID, ApplyInput{})
	assert.True(t, apperrors.Is(err, apperrors.CodeInternal))
	assert.Zero(t, f.store.internships[f.internship.ID].CurrentApplicants)
	assert.Empty(t, f.notifier.sent)
}

func TestNotificationFailureDoesNotFailApply(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("notification service down")

	_, err := f.svc.Apply(context.Background(), f.student, f.internship.ID, ApplyInput{})
	assert.NoError(t, err)
}

func TestWithdrawOnlyPendingOwnApplications(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.NoError(t, err)

	other := auth.Principal{UserID: uuid.New()}
	f.store.students[other.UserID] = models.Student{ID: uuid.New(), UserID: other.UserID}
	_, err = f.svc.Withdraw(ctx, other, app.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, err = f.svc.Review(ctx, f.recruiter, app.ID, ReviewInput{Status: "accepted"})
	require.NoError(t, err)
	_, err = f.svc.Withdraw(ctx, f.student, app.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.NoError(t, err)

	reviewed, err := f.svc.Review(ctx, f.recruiter, app.ID, ReviewInput{Status: "Rejected", Feedback: "Not this time", Notes: "weak on SQL"})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationRejected, reviewed.Status)
	assert.Equal(t, "Not this time", reviewed.Feedback)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, f.now, *reviewed.ReviewedAt)
	assert.Equal(t, f.recruiter.UserID, *reviewed.ReviewedBy)

	require.Len(t, f.notifier.sent, 2)
	last := f.notifier.sent[1]
	assert.Equal(t, f.student.UserID, last.UserID)
	assert.Equal(t, notification.TypeStatusUpdate, last.Type)
	assert.Equal(t, notification.NotificationLevelWarning, last.Level)

	_, err = f.svc.Review(ctx, f.recruiter, app.ID, ReviewInput{Status: "accepted"})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestReviewValidationAndOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, f.recruiter, app.ID, ReviewInput{Status: "withdrawn"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	rival := auth.Principal{UserID: uuid.New()}
	f.store.members[rival.UserID] = models.CompanyUser{UserID: rival.UserID, CompanyID: uuid.New()}
	_, err = f.svc.Review(ctx, rival, app.ID, ReviewInput{Status: "accepted"})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestLists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, f.student, f.internship.ID, ApplyInput{})
	require.NoError(t, err)

	mine, err := f.svc.ListMine(ctx, f.student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Backend Intern", mine[0].InternshipTitle)

	params := query.ListParams{Page: 1, Limit: 20}
	list, page, err := f.svc.ListForCompany(ctx, f.recruiter, &f.internship.ID, params)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), page.Total)

	other := uuid.New()
	list, _, err = f.svc.ListForCompany(ctx, f.recruiter, &other, params)
	require.NoError(t, err)
	assert.Empty(t, list)
}
