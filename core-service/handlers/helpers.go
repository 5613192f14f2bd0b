package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/utils/response"
)

// pathID parses a uuid path parameter, writing a 400 when it is malformed
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperrors.ValidationField(name, "must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// PaginatedResponse documents paged list bodies in swagger
type PaginatedResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Items      interface{} `json:"items"`
		Pagination interface{} `json:"pagination"`
	} `json:"data"`
}
