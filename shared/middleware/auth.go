package middleware

import (
	"crypto/subtle"
	"strings"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/utils/auth"
	"placify-backend/shared/utils/response"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"

	InternalTokenHeader = "X-Internal-Token"
)

// TokenValidator is satisfied by *auth.TokenManager
type TokenValidator interface {
	ValidateAccess(token string) (*auth.Claims, error)
}

// AuthMiddleware validates the bearer token and stores the caller's Principal on the context
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, apperrors.Unauthorized("Authorization header must be Bearer {token}"))
			return
		}

		claims, err := validator.ValidateAccess(tokenString)
		if err != nil {
			response.Error(c, apperrors.Unauthorized("Invalid or expired token"))
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			response.Error(c, apperrors.Unauthorized("Invalid user ID in token"))
			return
		}

		c.Set(principalKey, principal)
		c.Set("userID", principal.UserID)
		c.Next()
	}
}

// RequireRole lets only the listed roles through. It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			response.Error(c, apperrors.Unauthorized("authentication required"))
			return
		}
		for _, role := range roles {
			if principal.HasRole(role) {
				c.Next()
				return
			}
		}
		response.Error(c, apperrors.Forbidden("this action requires a different role"))
	}
}

// InternalOnly guards service-to-service endpoints with a shared token
func InternalOnly(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(InternalTokenHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.Error(c, apperrors.Forbidden("internal endpoint"))
			return
		}
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// MustPrincipal is for handlers mounted behind AuthMiddleware
func MustPrincipal(c *gin.Context) auth.Principal {
	p, _ := GetPrincipal(c)
	return p
}

// ExtractBearerToken pulls the token out of an Authorization header value
func ExtractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
