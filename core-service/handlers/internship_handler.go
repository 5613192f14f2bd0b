package handlers

import (
	"github.com/gin-gonic/gin"

	"placify-backend/core-service/internships"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/response"
)

type InternshipHandler struct {
	internships *internships.Service
}

func NewInternshipHandler(svc *internships.Service) *InternshipHandler {
	return &InternshipHandler{internships: svc}
}

// StatusRequest changes an internship's lifecycle status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetInternship returns one posting with its company and counts the view
// @Summary Get internship
// @Tags internships
// @Produce json
// @Param id path string true "Internship ID" format(uuid)
// @Success 200 {object} response.Envelope{data=models.Internship}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /internships/{id} [get]
func (h *InternshipHandler) GetInternship(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	internship, err := h.internships.View(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, internship)
}

// ListOwn returns the caller's company postings
// @Summary List my company's internships
// @Tags company
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Internship}
// @Failure 403 {object} response.Envelope
// @Router /company/internships [get]
func (h *InternshipHandler) ListOwn(c *gin.Context) {
	list, err := h.internships.ListOwn(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// CreateInternship publishes a new posting as draft unless a status is given
// @Summary Create internship
// @Tags company
// @Accept json
// @Produce json
// @Param internship body internships.Input true "Internship fields, title and description required"
// @Security BearerAuth
// @Success 201 {object} response.Envelope{data=models.Internship}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /company/internships [post]
func (h *InternshipHandler) CreateInternship(c *gin.Context) {
	var req internships.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	internship, err := h.internships.Create(c.Request.Context(), middleware.MustPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Internship created", internship)
}

// UpdateInternship edits one of the caller's postings
// @Summary Update internship
// @Tags company
// @Accept json
// @Produce json
// @Param id path string true "Internship ID" format(uuid)
// @Param internship body internships.Input true "Fields to change"
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.Internship}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /company/internships/{id} [put]
func (h *InternshipHandler) UpdateInternship(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req internships.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	internship, err := h.internships.Update(c.Request.Context(), middleware.MustPrincipal(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Internship updated", internship)
}

// UpdateStatus moves a posting between draft, active, closed and archived
// @Summary Change internship status
// @Tags company
// @Accept json
// @Produce json
// @Param id path string true "Internship ID" format(uuid)
// @Param status body handlers.StatusRequest true "New status"
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.Internship}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /company/internships/{id}/status [patch]
func (h *InternshipHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	internship, err := h.internships.SetStatus(c.Request.Context(), middleware.MustPrincipal(c), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Status updated", internship)
}
