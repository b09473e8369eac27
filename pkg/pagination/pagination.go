package pagination

import (
	"strconv"

	"fintrack/pkg/response"

	"github.com/gin-gonic/gin"
)

// List endpoints page with a 1-based window. The limit is capped so a single
// request cannot pull an unbounded slice of a table.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is the page window parsed from a list request.
type Params struct {
	Page  int
	Limit int
}

// Parse reads page and limit from the query string. Missing, non-numeric or
// out-of-range values fall back to the defaults.
func Parse(c *gin.Context) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Paged bundles a window's slice with the metadata list responses carry.
func (p Params) Paged(items interface{}, total int64) response.Paged {
	return response.Paged{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}
