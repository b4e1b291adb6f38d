package cache

import (
	"context"
	"testing"
	"time"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn        func(ctx context.Context, key string) ([]byte, error)
	setWithTTLFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	scanFn       func(ctx context.Context, pattern string) ([]string, error)
	delFn        func(ctx context.Context, keys ...string) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setWithTTLFn != nil {
		return m.setWithTTLFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, time.Hour), ms
}
