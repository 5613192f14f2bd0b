package handlers

import (
	"github.com/gin-gonic/gin"

	"placify-backend/core-service/directory"
	"placify-backend/shared/utils/query"
	"placify-backend/shared/utils/response"
)

// OrganizationHandler lists universities and companies and serves landing page stats
type OrganizationHandler struct {
	directory *directory.Service
}

func NewOrganizationHandler(svc *directory.Service) *OrganizationHandler {
	return &OrganizationHandler{directory: svc}
}

// StatsResponse represents landing page counters
type StatsResponse struct {
	Success bool            `json:"success"`
	Data    directory.Stats `json:"data"`
}

// GetUniversities retrieves universities with pagination and search
// @Summary List universities
// @Description Feeds the university picker of the student onboarding form
// @Tags organizations
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20, max: 100)"
// @Param search query string false "Search by name"
// @Param sort query string false "Sort field (name, created_at)"
// @Param order query string false "Sort order (asc, desc)"
// @Success 200 {object} handlers.PaginatedResponse
// @Failure 500 {object} response.Envelope
// @Router /universities [get]
func (h *OrganizationHandler) GetUniversities(c *gin.Context) {
	params := query.ParseListParams(c)

	list, pagination, err := h.directory.Universities(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, list, pagination)
}

// GetCompanies retrieves companies with pagination and search
// @Summary List companies
// @Tags organizations
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20, max: 100)"
// @Param search query string false "Search across name, industry and city"
// @Param sort query string false "Sort field (name, created_at)"
// @Param order query string false "Sort order (asc, desc)"
// @Success 200 {object} handlers.PaginatedResponse
// @Failure 500 {object} response.Envelope
// @Router /companies [get]
func (h *OrganizationHandler) GetCompanies(c *gin.Context) {
	params := query.ParseListParams(c)

	list, pagination, err := h.directory.Companies(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, list, pagination)
}

// GetStats returns the landing page counters
// @Summary Platform stats
// @Tags organizations
// @Produce json
// @Success 200 {object} handlers.StatsResponse
// @Failure 500 {object} response.Envelope
// @Router /stats [get]
func (h *OrganizationHandler) GetStats(c *gin.Context) {
	stats, err := h.directory.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
