package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placify-backend/auth-service/services"
	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/auth"
)

type userStore struct{ users []*models.User }

func (s *userStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (s *userStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (s *userStore) Create(_ context.Context, user *models.User) error {
	s.users = append(s.users, user)
	return nil
}

func newRouter(loginLimit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("test-secret", time.Hour, time.Hour)
	svc := services.NewAuthService(&userStore{}, tokens, nil)

	r := gin.New()
	limit := middleware.RateLimitConfig{MaxRequests: loginLimit, TimeWindow: time.Minute, BlockDuration: time.Minute}
	NewAuthHandler(svc).RegisterRoutes(r, tokens, middleware.NewRateLimiter(middleware.NewMemoryStore(0)),
		middleware.RateLimitConfig{MaxRequests: 100, TimeWindow: time.Minute, BlockDuration: time.Minute}, limit)
	return r
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginMe(t *testing.T) {
	r := newRouter(10)

	w := postJSON(r, "/api/auth/register", services.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "securepass1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = postJSON(r, "/api/auth/login", services.LoginInput{Email: "jane@example.com", Password: "securepass1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data services.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_onboarded":false`)
}

func TestMeRequiresToken(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(10).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	r := newRouter(2)
	creds := services.LoginInput{Email: "ghost@example.com", Password: "whatever1"}

	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/api/auth/login", creds).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(r, "/api/auth/login", creds).Code)
	assert.Equal(t, http.StatusTooManyRequests, postJSON(r, "/api/auth/login", creds).Code)
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	w := postJSON(newRouter(10), "/api/auth/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
