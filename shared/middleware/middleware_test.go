package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"placify-backend/shared/database/models"
	"placify-backend/shared/utils/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestExtractBearerToken(t *testing.T) {
	tok, ok := ExtractBearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = ExtractBearerToken("bearer  xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, ok := ExtractBearerToken(h)
		assert.False(t, ok, h)
	}
}

func newProtectedRouter(tm *auth.TokenManager, roles ...models.Role) *gin.Engine {
	r := gin.New()
	group := r.Group("/", AuthMiddleware(tm))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/me", func(c *gin.Context) {
		p := MustPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": p.UserID.String(), "role": p.Role})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour, time.Hour)
	userID := uuid.New()
	pair, err := tm.IssuePair(auth.Principal{UserID: userID, Role: models.RoleStudent})
	require.NoError(t, err)

	r := newProtectedRouter(tm)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRequireRole(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour, time.Hour)
	r := newProtectedRouter(tm, models.RoleCompany)

	call := func(role models.Role) int {
		pair, err := tm.IssuePair(auth.Principal{UserID: uuid.New(), Role: role})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.Token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call(models.RoleCompany))
	assert.Equal(t, http.StatusForbidden, call(models.RoleStudent))
	assert.Equal(t, http.StatusForbidden, call(models.RoleUnset))
}

func TestInternalOnly(t *testing.T) {
	r := gin.New()
	r.POST("/internal", InternalOnly("s3cret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/internal", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/internal", nil)
	req.Header.Set(InternalTokenHeader, "s3cret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMemoryStoreBlocksAndRecovers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }
	cfg := RateLimitConfig{MaxRequests: 2, TimeWindow: time.Minute, BlockDuration: 5 * time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := s.Allow(ctx, "ip", cfg)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := s.Allow(ctx, "ip", cfg)
	assert.False(t, ok, "third request in the window is blocked")

	now = now.Add(2 * time.Minute)
	ok, _ = s.Allow(ctx, "ip", cfg)
	assert.False(t, ok, "still inside block duration")

	now = now.Add(4 * time.Minute)
	ok, _ = s.Allow(ctx, "ip", cfg)
	assert.True(t, ok, "block expired")

	ok, _ = s.Allow(ctx, "other", cfg)
	assert.True(t, ok, "keys are independent")
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(NewMemoryStore(0))
	r := gin.New()
	r.Use(rl.Middleware("global", RateLimitConfig{MaxRequests: 1, TimeWindow: time.Minute, BlockDuration: time.Minute}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
