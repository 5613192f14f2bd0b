package routes

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/config"
	"placify-backend/shared/logger"
	"placify-backend/shared/utils/response"
)

const (
	ServiceAuth         = "auth"
	ServiceCore         = "core"
	ServiceNotification = "notification"
	ServiceDocument     = "document"
)

// Route sends every path under Prefix to Service
type Route struct {
	Prefix  string
	Service string
}

// DefaultRoutes is the public surface of the platform
var DefaultRoutes = []Route{
	{"/api/auth", ServiceAuth},
	{"/api/internships", ServiceCore},
	{"/api/onboarding", ServiceCore},
	{"/api/student", ServiceCore},
	{"/api/company", ServiceCore},
	{"/api/companies", ServiceCore},
	{"/api/universities", ServiceCore},
	{"/api/stats", ServiceCore},
	{"/api/documents", ServiceDocument},
	{"/api/notifications", ServiceNotification},
	{"/ws/notifications", ServiceNotification},
}

// getServiceURLs returns service URLs from configuration
func getServiceURLs(cfg *config.Config) map[string]string {
	return map[string]string{
		ServiceAuth:         cfg.AuthServiceURL,
		ServiceCore:         cfg.CoreServiceURL,
		ServiceNotification: cfg.NotificationServiceURL,
		ServiceDocument:     cfg.DocumentServiceURL,
	}
}

// Proxy forwards requests to the owning service by longest matching prefix
type Proxy struct {
	routes  []Route
	proxies map[string]*httputil.ReverseProxy
}

func NewProxyFromConfig(cfg *config.Config) (*Proxy, error) {
	return NewProxy(getServiceURLs(cfg), DefaultRoutes)
}

func NewProxy(serviceURLs map[string]string, routes []Route) (*Proxy, error) {
	p := &Proxy{proxies: make(map[string]*httputil.ReverseProxy)}

	for _, r := range routes {
		if _, ok := p.proxies[r.Service]; ok {
			p.routes = append(p.routes, r)
			continue
		}
		raw, ok := serviceURLs[r.Service]
		if !ok {
			return nil, fmt.Errorf("no URL configured for service %q", r.Service)
		}
		target, err := url.Parse(raw)
		if err != nil || target.Host == "" {
			return nil, fmt.Errorf("invalid URL for service %q: %q", r.Service, raw)
		}
		p.proxies[r.Service] = newReverseProxy(r.Service, target)
		p.routes = append(p.routes, r)
	}

	sort.SliceStable(p.routes, func(i, j int) bool {
		return len(p.routes[i].Prefix) > len(p.routes[j].Prefix)
	})
	return p, nil
}

func newReverseProxy(service string, target *url.URL) *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(target)
	// stream responses as they come, WebSocket upgrades are handled by ReverseProxy itself
	proxy.FlushInterval = -1
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.FromContext(r.Context()).Error("upstream request failed",
			zap.String("service", service), zap.String("path", r.URL.Path), zap.Error(err))
		response.WriteUpstreamError(w, service)
	}
	return proxy
}

// Match returns the service owning path
func (p *Proxy) Match(path string) (string, bool) {
	for _, r := range p.routes {
		if path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/") {
			return r.Service, true
		}
	}
	return "", false
}

// Handler proxies matched requests and answers 404 for everything else
func (p *Proxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		service, ok := p.Match(c.Request.URL.Path)
		if !ok {
			response.Error(c, apperrors.New(apperrors.CodeNotFound, "route not found"))
			return
		}
		p.proxies[service].ServeHTTP(c.Writer, c.Request)
	}
}
