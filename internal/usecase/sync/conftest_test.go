package sync

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openbrik/propsearch/internal/domain/batch"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/property"
)

// mockRecords implements RecordReader for tests.
type mockRecords struct {
	getFn     func(ctx context.Context, id string) (property.Property, error)
	listAllFn func(ctx context.Context) ([]property.Property, error)
}

func (m *mockRecords) Get(ctx context.Context, id string) (property.Property, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return property.Property{ID: id}, nil
}

func (m *mockRecords) ListAll(ctx context.Context) ([]property.Property, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

// mockIndex implements IndexStore for tests.
type mockIndex struct {
	upsertFn     func(ctx context.Context, doc document.Document) error
	removeFn     func(ctx context.Context, id string) error
	rebuildAllFn func(ctx context.Context, docs []document.Document) ([]batch.Result, error)

	upserted []document.Document
	removed  []string
}

func (m *mockIndex) EnsureIndex(context.Context) error { return nil }

func (m *mockIndex) Upsert(ctx context.Context, doc document.Document) error {
	m.upserted = append(m.upserted, doc)
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return nil
}

func (m *mockIndex) Remove(ctx context.Context, id string) error {
	m.removed = append(m.removed, id)
	if m.removeFn != nil {
		return m.removeFn(ctx, id)
	}
	return nil
}

func (m *mockIndex) RebuildAll(ctx context.Context, docs []document.Document) ([]batch.Result, error) {
	if m.rebuildAllFn != nil {
		return m.rebuildAllFn(ctx, docs)
	}
	results := make([]batch.Result, 0, len(docs))
	for _, d := range docs {
		results = append(results, batch.NewOK(d.ID))
	}
	return results, nil
}

// mockCache implements CacheInvalidator for tests.
type mockCache struct {
	invalidateFn    func(ctx context.Context) error
	invalidateCalls int
}

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	m.invalidateCalls++
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx)
	}
	return nil
}

func newTestService(t *testing.T, queueSize int) (*Service, *mockRecords, *mockIndex, *mockCache) {
	t.Helper()
	mr := &mockRecords{}
	mi := &mockIndex{}
	mc := &mockCache{}
	svc := New(mr, mi, mc, zap.NewNop(), Config{QueueSize: queueSize, OpTimeout: time.Second})
	return svc, mr, mi, mc
}
