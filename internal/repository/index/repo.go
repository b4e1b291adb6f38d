// Package index owns the search index over property documents: lifecycle,
// document upsert/removal, bulk rebuild, and query execution.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openbrik/propsearch/internal/db"
	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/batch"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/schema"
	"github.com/openbrik/propsearch/internal/domain/search/result"
	"github.com/openbrik/propsearch/internal/query"
)

// rebuildChunkSize is the number of documents pipelined per HSET round-trip
// during a full rebuild.
const rebuildChunkSize = 50

// store is the consumer interface for index operations (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) error
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

// Repo implements the index store over a Redis FT index.
type Repo struct {
	store       store
	docTTL      time.Duration
	concurrency int
}

// New creates an index repository. docTTL is the orphan-entry safety net
// attached to every document; concurrency bounds rebuild fan-out.
func New(s store, docTTL time.Duration, concurrency int) *Repo {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Repo{store: s, docTTL: docTTL, concurrency: concurrency}
}

// Definition builds the FT index definition from the schema.
func Definition() *db.IndexDefinition {
	b := db.NewIndex(domain.IndexName).Prefix(domain.DocumentKeyPrefix)
	for _, f := range schema.Describe() {
		switch {
		case f.Class == schema.Text && f.Sortable:
			b = b.TextWeightedSortable(f.Name, f.Weight)
		case f.Class == schema.Text:
			b = b.TextWeighted(f.Name, f.Weight)
		case f.MultiValue:
			b = b.TagWithOpts(f.Name, schema.MultiValueSeparator, false)
		case f.Class == schema.Tag && f.Sortable:
			b = b.TagSortable(f.Name)
		case f.Class == schema.Tag:
			b = b.Tag(f.Name)
		case f.Sortable:
			b = b.NumericSortable(f.Name)
		default:
			b = b.Numeric(f.Name)
		}
	}
	return b.MustBuild()
}

// EnsureIndex creates the index if absent. An already existing index is
// success, not an error.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, domain.IndexName)
	if err != nil {
		return fmt.Errorf("%w: index check: %w", domain.ErrIndexUnavailable, err)
	}
	if exists {
		return nil
	}
	return r.createIndex(ctx)
}

// recreateIndex drops and recreates the index definition. FT.DROPINDEX
// keeps the backing hashes, so documents stay searchable once the new
// definition finishes indexing them.
func (r *Repo) recreateIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, domain.IndexName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("%w: drop index: %w", domain.ErrIndexUnavailable, err)
	}
	return r.createIndex(ctx)
}

func (r *Repo) createIndex(ctx context.Context) error {
	err := r.store.CreateIndex(ctx, Definition())
	// losing a create race means the index is there either way
	if err == nil || errors.Is(err, db.ErrIndexExists) {
		return nil
	}
	return fmt.Errorf("%w: create index: %w", domain.ErrIndexUnavailable, err)
}

// Upsert writes or overwrites the document at its key and refreshes its TTL.
// The document is immediately queryable afterwards.
func (r *Repo) Upsert(ctx context.Context, doc document.Document) error {
	item := db.HashSetItem{Key: doc.Key(), Fields: doc.Fields(), TTL: r.docTTL}
	if err := r.store.HSetMulti(ctx, []db.HashSetItem{item}); err != nil {
		return fmt.Errorf("%w: upsert %s: %w", domain.ErrIndexUnavailable, doc.ID, err)
	}
	return nil
}

// Remove deletes the document if present. Removing an absent document is
// not an error.
func (r *Repo) Remove(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, domain.DocumentKeyPrefix+id); err != nil {
		return fmt.Errorf("%w: remove %s: %w", domain.ErrIndexUnavailable, id, err)
	}
	return nil
}

// RebuildAll recreates the index definition and upserts every given
// document, so schema changes take effect on the next full rebuild without
// a manual migration. Individual upsert failures are collected per document
// and reported; they never abort the batch. The returned error is non-nil
// only when the index itself could not be recreated.
func (r *Repo) RebuildAll(ctx context.Context, docs []document.Document) ([]batch.Result, error) {
	if err := r.recreateIndex(ctx); err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results = make([]batch.Result, 0, len(docs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for start := 0; start < len(docs); start += rebuildChunkSize {
		chunk := docs[start:min(start+rebuildChunkSize, len(docs))]
		g.Go(func() error {
			items := make([]db.HashSetItem, len(chunk))
			for i, doc := range chunk {
				items[i] = db.HashSetItem{Key: doc.Key(), Fields: doc.Fields(), TTL: r.docTTL}
			}
			err := r.store.HSetMulti(gctx, items)
			var hse *db.HashSetError
			perKey := errors.As(err, &hse)

			mu.Lock()
			defer mu.Unlock()
			for _, doc := range chunk {
				switch {
				case err == nil:
					results = append(results, batch.NewOK(doc.ID))
				case perKey:
					// only the keys the driver names actually failed
					if kerr, ok := hse.Failed[doc.Key()]; ok {
						results = append(results, batch.NewError(doc.ID, kerr))
					} else {
						results = append(results, batch.NewOK(doc.ID))
					}
				default:
					results = append(results, batch.NewError(doc.ID, err))
				}
			}
			return nil
		})
	}

	// Goroutines never return errors; failures land in results.
	_ = g.Wait()

	return results, nil
}

// Search executes a translated query and returns the full match count plus
// the requested page of documents.
func (r *Repo) Search(ctx context.Context, q query.Query, offset, limit int) (int, []document.Document, error) {
	sr, err := r.store.Search(ctx, &db.SearchQuery{
		Index:   domain.IndexName,
		Query:   q.Raw,
		Offset:  offset,
		Limit:   limit,
		SortBy:  q.SortBy,
		SortAsc: q.SortAsc,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("%w: search: %w", domain.ErrIndexUnavailable, err)
	}

	docs := make([]document.Document, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, domain.DocumentKeyPrefix)
		docs = append(docs, document.FromFields(id, entry.Fields))
	}

	return sr.Total, docs, nil
}

// Suggest returns name values for documents matching the given native query,
// used by autocomplete.
func (r *Repo) Suggest(ctx context.Context, rawQuery string, limit int) ([]string, error) {
	sr, err := r.store.Search(ctx, &db.SearchQuery{
		Index:        domain.IndexName,
		Query:        rawQuery,
		Offset:       0,
		Limit:        limit,
		ReturnFields: []string{"name"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: suggest: %w", domain.ErrIndexUnavailable, err)
	}

	names := make([]string, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if name := entry.Fields["name"]; name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Stats returns index metadata for operational visibility.
func (r *Repo) Stats(ctx context.Context) (result.Stats, error) {
	info, err := r.store.IndexInfo(ctx, domain.IndexName)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return result.Stats{Index: domain.IndexName, NumFields: len(schema.Describe())}, nil
		}
		return result.Stats{}, fmt.Errorf("%w: index info: %w", domain.ErrIndexUnavailable, err)
	}
	return result.Stats{
		Index:     info.Name,
		NumDocs:   info.NumDocs,
		NumFields: len(schema.Describe()),
	}, nil
}
