package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openbrik/propsearch/internal/db"
	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/document"
	"github.com/openbrik/propsearch/internal/domain/search/request"
	"github.com/openbrik/propsearch/internal/domain/search/result"
)

func testRequest() request.Request {
	return request.Request{Term: "villa", Page: 1, Limit: 20, Sort: request.SortCreatedAt}
}

func TestPutPage_GetPage(t *testing.T) {
	repo, ms := newTestRepo(t)

	stored := make(map[string][]byte)
	var gotTTL time.Duration
	ms.setWithTTLFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		stored[key] = value
		gotTTL = ttl
		return nil
	}
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if v, ok := stored[key]; ok {
			return v, nil
		}
		return nil, db.ErrKeyNotFound
	}

	req := testRequest()
	page := result.NewPage([]document.Document{{ID: "p1", Name: "Villa"}}, 1, 1, 20)

	if err := repo.PutPage(context.Background(), req, page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", gotTTL)
	}
	for key := range stored {
		if !strings.HasPrefix(key, domain.CacheKeyPrefix) {
			t.Errorf("cache key %q missing prefix", key)
		}
	}

	got, err := repo.GetPage(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total != 1 || len(got.Items) != 1 || got.Items[0].ID != "p1" {
		t.Errorf("unexpected cached page: %+v", got)
	}
}

func TestGetPage_Miss(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := repo.GetPage(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestGetPage_CorruptEntryIsMiss(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	_, err := repo.GetPage(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for corrupt entry, got %v", err)
	}
}

func TestGetPage_DistinctRequestsDistinctKeys(t *testing.T) {
	repo, ms := newTestRepo(t)

	var keys []string
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		keys = append(keys, key)
		return nil, db.ErrKeyNotFound
	}

	a := testRequest()
	b := testRequest()
	b.Page = 2

	_, _ = repo.GetPage(context.Background(), a)
	_, _ = repo.GetPage(context.Background(), b)

	if len(keys) != 2 || keys[0] == keys[1] {
		t.Errorf("distinct requests must use distinct keys: %v", keys)
	}
}

func TestSuggestions_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)

	stored := make(map[string][]byte)
	ms.setWithTTLFn = func(_ context.Context, key string, value []byte, _ time.Duration) error {
		stored[key] = value
		return nil
	}
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if v, ok := stored[key]; ok {
			return v, nil
		}
		return nil, db.ErrKeyNotFound
	}

	names := []string{"Villa Rosa", "Villa Verde"}
	if err := repo.PutSuggestions(context.Background(), "Vi", 10, names); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetSuggestions(context.Background(), "Vi", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "Villa Rosa" {
		t.Errorf("unexpected suggestions: %v", got)
	}

	// Same prefix with a different limit is a different entry.
	if _, err := repo.GetSuggestions(context.Background(), "Vi", 5); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("expected miss for different limit, got %v", err)
	}
}

func TestInvalidateAll(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotPattern string
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		gotPattern = pattern
		return []string{domain.CacheKeyPrefix + "a", domain.CacheKeyPrefix + "b"}, nil
	}

	var deleted []string
	ms.delFn = func(_ context.Context, keys ...string) error {
		deleted = keys
		return nil
	}

	if err := repo.InvalidateAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPattern != domain.CacheKeyPrefix+"*" {
		t.Errorf("unexpected scan pattern %q", gotPattern)
	}
	if len(deleted) != 2 {
		t.Errorf("expected 2 deleted keys, got %v", deleted)
	}
}

func TestInvalidateAll_EmptyNamespace(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return nil, nil
	}
	ms.delFn = func(_ context.Context, _ ...string) error {
		t.Error("Del must not be called when nothing matched")
		return nil
	}

	if err := repo.InvalidateAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPutPage_StorePayloadIsJSON(t *testing.T) {
	repo, ms := newTestRepo(t)

	var payload []byte
	ms.setWithTTLFn = func(_ context.Context, _ string, value []byte, _ time.Duration) error {
		payload = value
		return nil
	}

	page := result.NewPage(nil, 0, 1, 20)
	if err := repo.PutPage(context.Background(), testRequest(), page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded result.Page
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded.Limit != 20 {
		t.Errorf("unexpected decoded page: %+v", decoded)
	}
}
