package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params holds page-based pagination parameters extracted from a request.
type Params struct {
	Page     int
	PageSize int
}

// FromContext extracts page and page_size query parameters, applying
// defaults and the maximum page size.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return Params{Page: page, PageSize: size}
}

// Offset returns the SQL offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Response wraps a paginated list with its metadata.
type Response struct {
	List       interface{} `json:"list"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Total      int         `json:"total"`
	TotalPages int         `json:"total_pages"`
}

// NewResponse builds a paginated response. TotalPages is ceil(total/pageSize).
func NewResponse(list interface{}, total int, p Params) *Response {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return &Response{
		List:       list,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: pages,
	}
}
