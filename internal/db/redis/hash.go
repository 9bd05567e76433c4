package redis

import (
	"context"
	"sort"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// HSet writes all fields with a single HSET, so readers never observe a partial document.
// It reports whether any field was newly created.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) (bool, error) {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	cmd := s.b().Hset().Key(key).FieldValue()
	for _, k := range names {
		cmd = cmd.FieldValue(k, fields[k])
	}
	added, err := s.do(ctx, cmd.Build()).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpHSet, Err: err}
	}
	return added > 0, nil
}

// HGetAll returns all fields of a hash; a missing key yields ErrKeyNotFound.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	if len(m) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return m, nil
}

// Del deletes a key and reports whether it existed.
func (s *Store) Del(ctx context.Context, key string) (bool, error) {
	cmd := s.b().Del().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpDel, Err: err}
	}
	return n > 0, nil
}
