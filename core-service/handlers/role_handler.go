package handlers

import (
	"github.com/gin-gonic/gin"

	"placify-backend/core-service/onboarding"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/response"
)

// RoleHandler serves the role selection step that follows registration
type RoleHandler struct {
	onboarding *onboarding.Service
}

func NewRoleHandler(svc *onboarding.Service) *RoleHandler {
	return &RoleHandler{onboarding: svc}
}

// OnboardingResponse represents a completed onboarding
type OnboardingResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    onboarding.Result `json:"data"`
}

// OnboardingStatusResponse represents the caller's onboarding state
type OnboardingStatusResponse struct {
	Success bool              `json:"success"`
	Data    onboarding.Status `json:"data"`
}

// GetOnboardingStatus tells the client whether to show the role selection screen
// @Summary Get onboarding state
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.OnboardingStatusResponse
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /onboarding [get]
func (h *RoleHandler) GetOnboardingStatus(c *gin.Context) {
	status, err := h.onboarding.Status(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// CompleteOnboarding assigns the chosen role and creates the matching profile or organization
// @Summary Complete onboarding
// @Description Picks student, company or university. Runs in one transaction and returns a fresh token pair carrying the new role.
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body onboarding.Input true "Role and form data for that role"
// @Security BearerAuth
// @Success 201 {object} handlers.OnboardingResponse
// @Failure 400 {object} response.Envelope "Validation failed"
// @Failure 404 {object} response.Envelope "User or university not found"
// @Failure 409 {object} response.Envelope "Already onboarded"
// @Failure 500 {object} response.Envelope
// @Router /onboarding [post]
func (h *RoleHandler) CompleteOnboarding(c *gin.Context) {
	var req onboarding.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.onboarding.CompleteOnboarding(c.Request.Context(), middleware.MustPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Onboarding completed", result)
}
