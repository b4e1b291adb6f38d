// Package result defines the paginated output of a property search.
package result

import "github.com/openbrik/propsearch/internal/domain/document"

// Page is one page of search results. Total reflects the full match count
// regardless of the requested limit.
type Page struct {
	Total      int                 `json:"total"`
	Items      []document.Document `json:"items"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
}

// NewPage assembles a result page, deriving TotalPages from total and limit.
func NewPage(items []document.Document, total, page, limit int) Page {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page{
		Total:      total,
		Items:      items,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Stats is operational index metadata.
type Stats struct {
	Index     string `json:"index"`
	NumDocs   int    `json:"numDocs"`
	NumFields int    `json:"numFields"`
}
