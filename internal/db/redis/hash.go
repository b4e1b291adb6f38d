package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/openbrik/propsearch/internal/db"
)

// HSetMulti stores multiple hashes in a single DoMulti round-trip.
// Items with a non-zero TTL get a pipelined EXPIRE after their HSET.
// All commands execute regardless of individual failures; the returned
// error wraps a db.HashSetError listing exactly the keys that failed.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(items)*2)
	keys := make([]string, 0, len(items)*2)
	for _, item := range items {
		cmd := s.b().Hset().Key(item.Key).FieldValue()
		for k, v := range item.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		cmds = append(cmds, cmd.Build())
		keys = append(keys, item.Key)
		if item.TTL > 0 {
			cmds = append(cmds, s.b().Expire().Key(item.Key).Seconds(int64(item.TTL.Seconds())).Build())
			keys = append(keys, item.Key)
		}
	}

	var failed map[string]error
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		err := res.Error()
		if err == nil {
			continue
		}
		if failed == nil {
			failed = make(map[string]error)
		}
		// keys repeats when a key has both HSET and EXPIRE; keep the first error.
		if _, seen := failed[keys[i]]; !seen {
			failed[keys[i]] = err
		}
	}
	if failed != nil {
		return &db.Error{Op: db.OpHSet, Err: &db.HashSetError{Failed: failed}}
	}
	return nil
}

// Del deletes keys. Deleting absent keys is not an error.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	cmd := s.b().Del().Key(keys...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Scan iterates keys matching a pattern.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
