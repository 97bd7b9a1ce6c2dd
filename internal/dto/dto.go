// Package dto holds the request and response shapes of the HTTP API.
package dto

import "github.com/shopspring/decimal"

func init() {
	// Money and quantities go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the wire format of date-only fields.
const DateLayout = "2006-01-02"

// Pagination is embedded in list filters.
type Pagination struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

// Offset returns the row offset of the page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// TotalPages returns how many pages total rows fill.
func (p Pagination) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
