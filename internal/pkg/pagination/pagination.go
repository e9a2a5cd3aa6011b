package pagination

import (
	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultLimit is the default number of courses per page
	DefaultLimit = 20
	// MaxLimit caps the page size a client may ask for
	MaxLimit = 100
)

// Params represents pagination parameters
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// Page is a paginated payload
type Page struct {
	Items interface{} `json:"items"`
	Meta  Meta        `json:"meta"`
}

// FromQuery reads ?page= and ?limit= and clamps them to sane values
func FromQuery(c *fiber.Ctx) Params {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", DefaultLimit)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// NewPage wraps items with metadata computed from the total row count
func NewPage(items interface{}, p Params, total int64) Page {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Page{
		Items: items,
		Meta: Meta{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    p.Page < totalPages,
		},
	}
}
