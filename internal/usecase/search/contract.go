package search

import (
	"context"

	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/search/request"
	"github.com/openbrik/propsearch/internal/domain/search/result"
	"github.com/openbrik/propsearch/internal/query"
)

// IndexStore defines the index contract for read operations.
type IndexStore interface {
	Search(ctx context.Context, q query.Query, offset, limit int) (int, []document.Document, error)
	Suggest(ctx context.Context, rawQuery string, limit int) ([]string, error)
	Stats(ctx context.Context) (result.Stats, error)
}

// Cache defines the query-cache contract for read operations.
type Cache interface {
	GetPage(ctx context.Context, req request.Request) (result.Page, error)
	PutPage(ctx context.Context, req request.Request, page result.Page) error
	GetSuggestions(ctx context.Context, prefix string, limit int) ([]string, error)
	PutSuggestions(ctx context.Context, prefix string, limit int, names []string) error
}
