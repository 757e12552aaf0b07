package pagination

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// PageParams paging and ordering taken from the query string.
type PageParams struct {
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
	SortBy   string `json:"sort_by" form:"sort_by"`
	SortDesc bool   `json:"sort_desc" form:"sort_desc"`
}

// PageInfo paging metadata returned with list responses.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// ParsePageParams reads page, page_size and sort from the request. sort has the
// form "field" or "-field"; fields outside allowedSorts fall back to
// created_at descending.
func ParsePageParams(c *gin.Context, allowedSorts ...string) *PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	params := &PageParams{
		Page:     page,
		PageSize: pageSize,
		SortBy:   "created_at",
		SortDesc: true,
	}

	if sort := strings.TrimSpace(c.Query("sort")); sort != "" {
		desc := strings.HasPrefix(sort, "-")
		field := strings.TrimPrefix(sort, "-")
		for _, allowed := range allowedSorts {
			if field == allowed {
				params.SortBy = field
				params.SortDesc = desc
				break
			}
		}
	}

	return params
}

// NewPageInfo computes paging metadata.
func NewPageInfo(page, pageSize int, total int64) *PageInfo {
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	return &PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func (p *PageParams) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *PageParams) GetLimit() int {
	return p.PageSize
}

// OrderClause renders the ORDER BY fragment. SortBy is whitelisted by
// ParsePageParams so it is safe to interpolate.
func (p *PageParams) OrderClause() string {
	if p.SortBy == "" {
		return "created_at DESC"
	}
	if p.SortDesc {
		return p.SortBy + " DESC"
	}
	return p.SortBy + " ASC"
}
