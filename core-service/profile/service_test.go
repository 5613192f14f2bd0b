package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/utils/auth"
)

type fakeStore struct {
	user         models.User
	student      *models.Student
	universities map[uuid.UUID]bool
	saved        int
}

func (s *fakeStore) User(_ context.Context, id uuid.UUID) (*models.User, error) {
	if id != s.user.ID {
		return nil, apperrors.NotFound("user")
	}
	u := s.user
	return &u, nil
}

func (s *fakeStore) Student(_ context.Context, userID uuid.UUID) (*models.Student, error) {
	if s.student == nil || s.student.UserID != userID {
		return nil, apperrors.NotFound("student profile")
	}
	st := *s.student
	return &st, nil
}

func (s *fakeStore) UniversityExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.universities[id], nil
}

func (s *fakeStore) SaveStudent(_ context.Context, st *models.Student) error {
	cp := *st
	s.student = &cp
	s.saved++
	return nil
}

func (s *fakeStore) SetUserName(_ context.Context, _ uuid.UUID, name string) error {
	s.user.Name = name
	return nil
}

func str(s string) *string { return &s }

func newStore() (*fakeStore, auth.Principal) {
	user := models.User{ID: uuid.New(), Email: "ada@example.com"}
	store := &fakeStore{
		user:         user,
		student:      &models.Student{ID: uuid.New(), UserID: user.ID},
		universities: map[uuid.UUID]bool{},
	}
	return store, auth.Principal{UserID: user.ID, Role: models.RoleStudent}
}

func TestUpdateCompletesProfile(t *testing.T) {
	store, p := newStore()
	uni := uuid.New()
	store.universities[uni] = true
	svc := NewService(store)

	view, err := svc.Update(context.Background(), p, Input{
		FirstName:    str(" Ada "),
		LastName:     str("Lovelace"),
		UniversityID: &uni,
		Skills:       str("go, sql"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", store.student.FirstName)
	assert.True(t, store.student.IsProfileComplete)
	assert.Equal(t, "go, sql", view.Student.Skills)
	assert.Equal(t, "Ada Lovelace", store.user.Name)
	assert.Equal(t, "Ada Lovelace", view.User.Name)
}

func TestUpdateValidation(t *testing.T) {
	store, p := newStore()
	svc := NewService(store)
	year := 42
	unknown := uuid.New()

	_, err := svc.Update(context.Background(), p, Input{Phone: str("call me"), YearOfStudy: &year, UniversityID: &unknown})
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Len(t, appErr.Fields, 3)
	assert.Zero(t, store.saved)
}

func TestGetRequiresStudentRow(t *testing.T) {
	store, p := newStore()
	store.student = nil

	_, err := NewService(store).Get(context.Background(), p)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
