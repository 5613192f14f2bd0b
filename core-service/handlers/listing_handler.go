package handlers

import (
	"github.com/gin-gonic/gin"

	"placify-backend/core-service/listing"
	"placify-backend/shared/utils/response"
)

type ListingHandler struct {
	listing *listing.Service
}

func NewListingHandler(svc *listing.Service) *ListingHandler {
	return &ListingHandler{listing: svc}
}

// ListingResponse documents the listing body
type ListingResponse struct {
	Success bool           `json:"success"`
	Data    listing.Result `json:"data"`
}

// ListInternships returns the internship catalogue narrowed by the optional filters
// @Summary Browse internships
// @Description Filters combine with AND. Unknown jobType values are ignored. Results keep catalogue order, newest first.
// @Tags internships
// @Produce json
// @Param location query string false "Case-insensitive substring of the location"
// @Param jobType query string false "internship, full-time, part-time or remote, case-sensitive"
// @Param experienceLevel query string false "Exact experience level, case-insensitive"
// @Param remoteOnly query string false "Any non-empty value keeps remote postings only"
// @Success 200 {object} handlers.ListingResponse
// @Failure 500 {object} response.Envelope
// @Router /internships [get]
func (h *ListingHandler) ListInternships(c *gin.Context) {
	criteria := listing.ParseCriteria(c.Request.URL.Query())

	result, err := h.listing.List(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
