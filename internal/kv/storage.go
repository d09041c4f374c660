package kv

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// Storage is the failure-tolerant JSON view of a Store. Reads degrade to the
// caller's default and writes report success as a bool; every failure is
// logged, none is returned.
type Storage struct {
	store Store
	log   *zap.Logger
}

func NewStorage(store Store, log *zap.Logger) *Storage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Storage{store: store, log: log.Named("kv")}
}

func (s *Storage) Store() Store { return s.store }

// Get decodes the JSON value under key into a T, or returns def.
func Get[T any](ctx context.Context, s *Storage, key string, def T) T {
	raw, ok := s.read(ctx, key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Error("get.decode", zap.String("key", key), zap.Error(err))
		return def
	}
	return v
}

// GetWithDates decodes the value under key into generic JSON values and turns
// every ISO-8601 timestamp string into a time.Time.
func GetWithDates(ctx context.Context, s *Storage, key string, def any) any {
	raw, ok := s.read(ctx, key)
	if !ok {
		return def
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Error("get_with_dates.decode", zap.String("key", key), zap.Error(err))
		return def
	}
	return Revive(v)
}

func (s *Storage) Set(ctx context.Context, key string, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("set.encode", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.store.Set(ctx, key, b); err != nil {
		s.log.Error("set.write", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Storage) Remove(ctx context.Context, key string) bool {
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Error("remove", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Exists reports whether key holds a value. Backend errors count as absent.
func (s *Storage) Exists(ctx context.Context, key string) bool {
	_, ok := s.read(ctx, key)
	return ok
}

// Usage is the storage footprint in bytes, 0 when the backend cannot tell.
func (s *Storage) Usage(ctx context.Context) int64 {
	n, err := s.store.Usage(ctx)
	if err != nil {
		s.log.Warn("usage", zap.Error(err))
		return 0
	}
	return n
}

func (s *Storage) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.log.Error("get.read", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, true
}
