package handlers

import (
	"github.com/gin-gonic/gin"

	"placify-backend/auth-service/services"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/response"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// Refresh Request struct
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// POST /api/auth/register
// @Summary Register
// @Description Creates an account without a role. The role is chosen afterwards through onboarding.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body services.RegisterInput true "Account"
// @Success 201 {object} response.Envelope{data=services.Session}
// @Failure 400 {object} response.Envelope "Invalid request format"
// @Failure 409 {object} response.Envelope "Email already registered"
// @Failure 429 {object} response.Envelope "Too many attempts"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	session, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Registration successful", session)
}

// POST /api/auth/login
// @Summary User login
// @Description Authenticate a user and return JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param login body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Envelope{data=services.Session} "Successful login"
// @Failure 400 {object} response.Envelope "Invalid request format"
// @Failure 401 {object} response.Envelope "Invalid credentials"
// @Failure 429 {object} response.Envelope "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Login successful", session)
}

// POST /api/auth/refresh
// @Summary Refresh tokens
// @Description Issues a new pair. The access token carries the user's current role, so call this after onboarding from another device.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Envelope{data=services.Session}
// @Failure 401 {object} response.Envelope "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	session, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// GET /api/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=services.UserInfo}
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	info, err := h.auth.Me(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}

// RegisterRoutes mounts the auth endpoints. Login and register get the stricter limit.
func (h *AuthHandler) RegisterRoutes(r gin.IRouter, validator middleware.TokenValidator, limiter *middleware.RateLimiter, general, login middleware.RateLimitConfig) {
	api := r.Group("/api/auth")
	api.POST("/register", limiter.Middleware("register", login), h.Register)
	api.POST("/login", limiter.Middleware("login", login), h.Login)
	api.POST("/refresh", limiter.Middleware("refresh", general), h.Refresh)
	api.GET("/me", middleware.AuthMiddleware(validator), h.Me)
}
