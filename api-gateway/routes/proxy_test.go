package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placify-backend/shared/logger"
)

// closeNotifyRecorder lets gin's responseWriter satisfy http.CloseNotifier,
// which httputil.ReverseProxy asserts on and httptest.ResponseRecorder lacks.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
}

func (closeNotifyRecorder) CloseNotify() <-chan bool { return make(chan bool) }

func newRecorder() closeNotifyRecorder {
	return closeNotifyRecorder{httptest.NewRecorder()}
}

func upstream(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", name)
		w.Header().Set("X-Seen-Request-ID", r.Header.Get(logger.RequestIDKey))
		w.Header().Set("X-Seen-Path", r.URL.RequestURI())
		w.WriteHeader(http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T) (*gin.Engine, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	urls := map[string]string{
		ServiceAuth:         upstream(t, ServiceAuth).URL,
		ServiceCore:         upstream(t, ServiceCore).URL,
		ServiceNotification: upstream(t, ServiceNotification).URL,
		ServiceDocument:     upstream(t, ServiceDocument).URL,
	}
	proxy, err := NewProxy(urls, DefaultRoutes)
	require.NoError(t, err)

	r := gin.New()
	r.Use(logger.RequestIDMiddleware())
	r.NoRoute(proxy.Handler())
	return r, urls
}

func TestProxyRoutesByPrefix(t *testing.T) {
	r, _ := newGateway(t)

	tests := []struct {
		path    string
		service string
	}{
		{"/api/auth/login", ServiceAuth},
		{"/api/internships?location=nyc&remoteOnly=1", ServiceCore},
		{"/api/internships/0b7e/applications", ServiceCore},
		{"/api/onboarding", ServiceCore},
		{"/api/company/internships", ServiceCore},
		{"/api/companies", ServiceCore},
		{"/api/student/profile", ServiceCore},
		{"/api/documents/abc/file", ServiceDocument},
		{"/api/notifications/unread-count", ServiceNotification},
		{"/ws/notifications?token=x", ServiceNotification},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(logger.RequestIDKey, "req-1")
			w := newRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusTeapot, w.Code)
			assert.Equal(t, tt.service, w.Header().Get("X-Upstream"))
			assert.Equal(t, "req-1", w.Header().Get("X-Seen-Request-ID"))
			assert.Equal(t, tt.path, w.Header().Get("X-Seen-Path"))
		})
	}
}

func TestProxyUnknownPrefix(t *testing.T) {
	r, _ := newGateway(t)

	for _, path := range []string{"/api/permissions", "/api/companiesX", "/"} {
		w := newRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestProxyUpstreamDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	proxy, err := NewProxy(map[string]string{ServiceCore: deadURL}, []Route{{"/api/stats", ServiceCore}})
	require.NoError(t, err)

	r := gin.New()
	r.NoRoute(proxy.Handler())
	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "UPSTREAM_UNAVAILABLE")
}

func TestNewProxyRejectsBadConfig(t *testing.T) {
	_, err := NewProxy(map[string]string{}, []Route{{"/api/auth", ServiceAuth}})
	assert.Error(t, err)

	_, err = NewProxy(map[string]string{ServiceAuth: "not a url"}, []Route{{"/api/auth", ServiceAuth}})
	assert.Error(t, err)
}

func TestMatchPrefersLongestPrefix(t *testing.T) {
	proxy, err := NewProxy(
		map[string]string{ServiceCore: "http://core:8003", ServiceDocument: "http://docs:8005"},
		[]Route{{"/api", ServiceCore}, {"/api/documents", ServiceDocument}},
	)
	require.NoError(t, err)

	service, ok := proxy.Match("/api/documents/1")
	require.True(t, ok)
	assert.Equal(t, ServiceDocument, service)

	service, ok = proxy.Match("/api/stats")
	require.True(t, ok)
	assert.Equal(t, ServiceCore, service)
}
