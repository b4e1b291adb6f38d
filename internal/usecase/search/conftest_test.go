package search

import (
	"context"
	"testing"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/search/request"
	"github.com/openbrik/propsearch/internal/domain/search/result"
	"github.com/openbrik/propsearch/internal/query"
)

// mockIndex implements IndexStore for tests.
type mockIndex struct {
	searchFn  func(ctx context.Context, q query.Query, offset, limit int) (int, []document.Document, error)
	suggestFn func(ctx context.Context, raw string, limit int) ([]string, error)
	statsFn   func(ctx context.Context) (result.Stats, error)

	searchCalls  int
	suggestCalls int
}

func (m *mockIndex) Search(ctx context.Context, q query.Query, offset, limit int) (int, []document.Document, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, q, offset, limit)
	}
	return 0, nil, nil
}

func (m *mockIndex) Suggest(ctx context.Context, raw string, limit int) ([]string, error) {
	m.suggestCalls++
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

// mockCache implements Cache for tests. The zero value always misses and
// accepts writes.
type mockCache struct {
	pages       map[string]result.Page
	suggestions map[string][]string
	getErr      error
	putErr      error

	putPageCalls int
}

func (m *mockCache) GetPage(_ context.Context, req request.Request) (result.Page, error) {
	if m.getErr != nil {
		return result.Page{}, m.getErr
	}
	if p, ok := m.pages[req.CanonicalKey()]; ok {
		return p, nil
	}
	return result.Page{}, domain.ErrCacheMiss
}

func (m *mockCache) PutPage(_ context.Context, req request.Request, page result.Page) error {
	m.putPageCalls++
	if m.putErr != nil {
		return m.putErr
	}
	if m.pages == nil {
		m.pages = make(map[string]result.Page)
	}
	m.pages[req.CanonicalKey()] = page
	return nil
}

func (m *mockCache) GetSuggestions(_ context.Context, prefix string, _ int) ([]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.suggestions[prefix]; ok {
		return s, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCache) PutSuggestions(_ context.Context, prefix string, _ int, names []string) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.suggestions == nil {
		m.suggestions = make(map[string][]string)
	}
	m.suggestions[prefix] = names
	return nil
}

func newTestService(t *testing.T) (*Service, *mockIndex, *mockCache) {
	t.Helper()
	mi := &mockIndex{}
	mc := &mockCache{}
	svc := New(mi, mc, Config{DefaultPageSize: 20, MaxPageSize: 100, AutocompleteMax: 10})
	return svc, mi, mc
}
