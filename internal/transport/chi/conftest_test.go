package chi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/batch"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/property"
	"github.com/openbrik/propsearch/internal/domain/search/request"
	"github.com/openbrik/propsearch/internal/domain/search/result"
	"github.com/openbrik/propsearch/internal/query"
	healthuc "github.com/openbrik/propsearch/internal/usecase/health"
	searchuc "github.com/openbrik/propsearch/internal/usecase/search"
	syncuc "github.com/openbrik/propsearch/internal/usecase/sync"
)

// mockIndex backs the search and sync services in handler tests.
type mockIndex struct {
	searchFn  func(ctx context.Context, q query.Query, offset, limit int) (int, []document.Document, error)
	suggestFn func(ctx context.Context, raw string, limit int) ([]string, error)
	statsFn   func(ctx context.Context) (result.Stats, error)
	upserted  []document.Document
}

func (m *mockIndex) Search(ctx context.Context, q query.Query, offset, limit int) (int, []document.Document, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q, offset, limit)
	}
	return 0, nil, nil
}

func (m *mockIndex) Suggest(ctx context.Context, raw string, limit int) ([]string, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, raw, limit)
	}
	return nil, nil
}

func (m *mockIndex) Stats(ctx context.Context) (result.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return result.Stats{}, nil
}

func (m *mockIndex) EnsureIndex(context.Context) error { return nil }

func (m *mockIndex) Upsert(_ context.Context, doc document.Document) error {
	m.upserted = append(m.upserted, doc)
	return nil
}

func (m *mockIndex) Remove(context.Context, string) error { return nil }

func (m *mockIndex) RebuildAll(_ context.Context, docs []document.Document) ([]batch.Result, error) {
	results := make([]batch.Result, 0, len(docs))
	for _, d := range docs {
		results = append(results, batch.NewOK(d.ID))
	}
	return results, nil
}

// nopCache always misses and swallows writes.
type nopCache struct{}

func (nopCache) GetPage(context.Context, request.Request) (result.Page, error) {
	return result.Page{}, domain.ErrCacheMiss
}

func (nopCache) PutPage(context.Context, request.Request, result.Page) error { return nil }

func (nopCache) GetSuggestions(context.Context, string, int) ([]string, error) {
	return nil, domain.ErrCacheMiss
}

func (nopCache) PutSuggestions(context.Context, string, int, []string) error { return nil }

type nopInvalidator struct{}

func (nopInvalidator) InvalidateAll(context.Context) error { return nil }

type mockRecords struct{}

func (mockRecords) Get(_ context.Context, id string) (property.Property, error) {
	return property.Property{ID: id}, nil
}

func (mockRecords) ListAll(context.Context) ([]property.Property, error) {
	return nil, nil
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

func testServices(t *testing.T, mi *mockIndex) (*searchuc.Service, *syncuc.Service) {
	t.Helper()

	searchSvc := searchuc.New(mi, nopCache{}, searchuc.Config{
		DefaultPageSize: 20, MaxPageSize: 100, AutocompleteMax: 10,
	})
	syncSvc := syncuc.New(mockRecords{}, mi, nopInvalidator{}, zap.NewNop(), syncuc.Config{
		QueueSize: 8, OpTimeout: time.Second,
	})
	return searchSvc, syncSvc
}

func newTestServer(t *testing.T, mi *mockIndex) http.Handler {
	t.Helper()

	searchSvc, syncSvc := testServices(t, mi)
	healthSvc := healthuc.New(mockPinger{}, mockPinger{})

	return NewServer(searchSvc, syncSvc, healthSvc, zap.NewNop()).Router()
}
