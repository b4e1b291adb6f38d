package sync

import (
	"context"

	"github.com/openbrik/propsearch/internal/domain/batch"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/property"
)

// RecordReader reads canonical property aggregates from the system of record.
type RecordReader interface {
	Get(ctx context.Context, id string) (property.Property, error)
	ListAll(ctx context.Context) ([]property.Property, error)
}

// IndexStore defines the index contract for write operations.
type IndexStore interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, doc document.Document) error
	Remove(ctx context.Context, id string) error
	RebuildAll(ctx context.Context, docs []document.Document) ([]batch.Result, error)
}

// CacheInvalidator flushes the query cache after index writes.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}
