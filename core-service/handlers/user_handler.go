package handlers

import (
	"github.com/gin-gonic/gin"

	"placify-backend/core-service/profile"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/response"
)

// UserHandler serves the student's own profile
type UserHandler struct {
	profiles *profile.Service
}

func NewUserHandler(svc *profile.Service) *UserHandler {
	return &UserHandler{profiles: svc}
}

// ProfileResponse represents a student profile
type ProfileResponse struct {
	Success bool         `json:"success"`
	Data    profile.View `json:"data"`
}

// GetProfile returns the caller's user and student rows
// @Summary Get student profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.ProfileResponse
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope "Student profile not found"
// @Router /student/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	view, err := h.profiles.Get(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// UpdateProfile changes personal and academic fields
// @Summary Update student profile
// @Tags students
// @Accept json
// @Produce json
// @Param profile body profile.Input true "Fields to change"
// @Security BearerAuth
// @Success 200 {object} handlers.ProfileResponse
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /student/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req profile.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	view, err := h.profiles.Update(c.Request.Context(), middleware.MustPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Profile updated", view)
}
