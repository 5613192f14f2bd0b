package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"placify-backend/core-service/applications"
	"placify-backend/shared/apperrors"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/query"
	"placify-backend/shared/utils/response"
)

type ApplicationHandler struct {
	applications *applications.Service
}

func NewApplicationHandler(svc *applications.Service) *ApplicationHandler {
	return &ApplicationHandler{applications: svc}
}

// Apply submits the caller's application to an internship
// @Summary Apply to internship
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Internship ID" format(uuid)
// @Param application body applications.ApplyInput false "Cover letter"
// @Security BearerAuth
// @Success 201 {object} response.Envelope{data=models.Application}
// @Failure 403 {object} response.Envelope "Student profile required"
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Already applied or not accepting applications"
// @Router /internships/{id}/applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req applications.ApplyInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
	}

	app, err := h.applications.Apply(c.Request.Context(), middleware.MustPrincipal(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Application submitted", app)
}

// ListMine returns the caller's applications for the student dashboard
// @Summary List my applications
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]applications.StudentApplication}
// @Failure 403 {object} response.Envelope
// @Router /student/applications [get]
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	list, err := h.applications.ListMine(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Withdraw cancels one of the caller's pending applications
// @Summary Withdraw application
// @Tags students
// @Produce json
// @Param id path string true "Application ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.Application}
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Application is not pending"
// @Router /student/applications/{id}/withdraw [post]
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	app, err := h.applications.Withdraw(c.Request.Context(), middleware.MustPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Application withdrawn", app)
}

// ListForCompany pages over applications to the caller's company postings
// @Summary List applications to my company
// @Tags company
// @Produce json
// @Param internship_id query string false "Only this internship" format(uuid)
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20, max: 100)"
// @Security BearerAuth
// @Success 200 {object} handlers.PaginatedResponse
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /company/applications [get]
func (h *ApplicationHandler) ListForCompany(c *gin.Context) {
	var internshipID *uuid.UUID
	if raw := c.Query("internship_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperrors.ValidationField("internship_id", "must be a valid UUID"))
			return
		}
		internshipID = &id
	}

	params := query.ParseListParams(c)
	list, pagination, err := h.applications.ListForCompany(c.Request.Context(), middleware.MustPrincipal(c), internshipID, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, list, pagination)
}

// Review accepts or rejects a pending application
// @Summary Review application
// @Tags company
// @Accept json
// @Produce json
// @Param id path string true "Application ID" format(uuid)
// @Param review body applications.ReviewInput true "Decision with optional feedback and notes"
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.Application}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Already reviewed"
// @Router /company/applications/{id} [patch]
func (h *ApplicationHandler) Review(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req applications.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	app, err := h.applications.Review(c.Request.Context(), middleware.MustPrincipal(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Application reviewed", app)
}
