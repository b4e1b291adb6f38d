// Package cache stores computed query results under a canonical request key
// with a TTL. Invalidation is conservative: every index write flushes the
// whole namespace.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/openbrik/propsearch/internal/db"
	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/search/request"
	"github.com/openbrik/propsearch/internal/domain/search/result"
)

// store is the consumer interface for cache operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
}

// Repo is a TTL query cache sharing the index's backing store under its own
// key prefix.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a query cache with the given entry TTL.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// GetPage returns the cached result page for a request, or
// domain.ErrCacheMiss.
func (r *Repo) GetPage(ctx context.Context, req request.Request) (result.Page, error) {
	var page result.Page
	if err := r.get(ctx, searchKey(req), &page); err != nil {
		return result.Page{}, err
	}
	return page, nil
}

// PutPage caches a computed result page for a request.
func (r *Repo) PutPage(ctx context.Context, req request.Request, page result.Page) error {
	return r.put(ctx, searchKey(req), page)
}

// GetSuggestions returns cached autocomplete suggestions, or
// domain.ErrCacheMiss.
func (r *Repo) GetSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	var names []string
	if err := r.get(ctx, suggestKey(prefix, limit), &names); err != nil {
		return nil, err
	}
	return names, nil
}

// PutSuggestions caches autocomplete suggestions.
func (r *Repo) PutSuggestions(ctx context.Context, prefix string, limit int, names []string) error {
	return r.put(ctx, suggestKey(prefix, limit), names)
}

// InvalidateAll removes every cache entry. Called unconditionally after any
// successful index write; a missed call here is a correctness bug.
func (r *Repo) InvalidateAll(ctx context.Context) error {
	keys, err := r.store.Scan(ctx, domain.CacheKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	return nil
}

func (r *Repo) get(ctx context.Context, key string, out any) error {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrCacheMiss
		}
		return fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		// A corrupt entry behaves as a miss; the write path will replace it.
		return domain.ErrCacheMiss
	}
	return nil
}

func (r *Repo) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func searchKey(req request.Request) string {
	return domain.CacheKeyPrefix + req.CanonicalKey()
}

func suggestKey(prefix string, limit int) string {
	return domain.CacheKeyPrefix + "autocomplete:" + prefix + ":" + strconv.Itoa(limit)
}
