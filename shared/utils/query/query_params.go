package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListParams is the paging, search and sort part of a list request
type ListParams struct {
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
	Search string     `json:"search"`
	Sort   SortParams `json:"sort"`
}

// SortParams represents sorting parameters
type SortParams struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// Pagination is returned next to every paged list
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParseListParams reads page, limit, search, sort and order from the query string
func ParseListParams(c *gin.Context) ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	order := strings.ToLower(c.DefaultQuery("order", "desc"))
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return ListParams{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(c.Query("search")),
		Sort: SortParams{
			Field: c.DefaultQuery("sort", "created_at"),
			Order: order,
		},
	}
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ApplySearch ORs an ILIKE over each of the given columns
func ApplySearch(db *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return db
	}

	conditions := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		conditions[i] = fmt.Sprintf("%s ILIKE ?", column)
		args[i] = "%" + search + "%"
	}

	return db.Where(strings.Join(conditions, " OR "), args...)
}

// ApplySort orders by the requested field when it is whitelisted, by created_at otherwise
func ApplySort(db *gorm.DB, sort SortParams, allowed map[string]string) *gorm.DB {
	if column, ok := allowed[sort.Field]; ok {
		return db.Order(fmt.Sprintf("%s %s", column, strings.ToUpper(sort.Order)))
	}
	return db.Order("created_at DESC")
}

// ApplyPagination applies offset and limit
func ApplyPagination(db *gorm.DB, p ListParams) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.Limit)
}

// NewPagination creates pagination metadata
func NewPagination(p ListParams, total int64) Pagination {
	var totalPages int64
	if p.Limit > 0 {
		totalPages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}

	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(p.Page) < totalPages,
		HasPrev:    p.Page > 1,
	}
}
