package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnknownSchema marks a record written by a newer (or foreign) schema.
var ErrUnknownSchema = errors.New("kv: unknown record schema")

// LegacySchema is the schema number of payloads stored without an envelope.
const LegacySchema = 0

type envelope struct {
	Schema int             `json:"schema"`
	Data   json.RawMessage `json:"data"`
}

// Codec persists T inside a {"schema": N, "data": ...} envelope. Payloads of
// older schemas go through Upgrade on read; anything it cannot handle is
// rejected as a whole and the caller's default is used instead.
type Codec[T any] struct {
	Version int
	Upgrade func(schema int, raw json.RawMessage) (T, error)
}

func (c Codec[T]) Decode(raw []byte) (T, error) {
	var zero T
	schema, data := splitEnvelope(raw)
	switch {
	case schema == c.Version:
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return zero, err
		}
		return v, nil
	case schema < c.Version && c.Upgrade != nil:
		return c.Upgrade(schema, data)
	default:
		return zero, fmt.Errorf("%w: %d", ErrUnknownSchema, schema)
	}
}

func (c Codec[T]) Encode(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Schema: c.Version, Data: data})
}

// Load returns the decoded record under key, or def when it is missing or was
// rejected.
func (c Codec[T]) Load(ctx context.Context, s *Storage, key string, def T) T {
	raw, ok := s.read(ctx, key)
	if !ok {
		return def
	}
	v, err := c.Decode(raw)
	if err != nil {
		s.log.Error("record.reject", zap.String("key", key), zap.Error(err))
		return def
	}
	return v
}

func (c Codec[T]) Save(ctx context.Context, s *Storage, key string, v T) bool {
	b, err := c.Encode(v)
	if err != nil {
		s.log.Error("record.encode", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.store.Set(ctx, key, b); err != nil {
		s.log.Error("record.write", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Mutate atomically loads the record under key (def when missing or
// rejected), applies fn and saves the result. An error from fn is returned
// as is and nothing is written; backend failures come back as
// ErrNotPersisted.
func (c Codec[T]) Mutate(ctx context.Context, s *Storage, key string, def func() T, fn func(T) (T, error)) (T, error) {
	var (
		out   T
		fnErr error
	)
	err := s.store.Update(ctx, key, func(old []byte, found bool) ([]byte, error) {
		cur := def()
		if found {
			v, err := c.Decode(old)
			if err != nil {
				s.log.Error("record.reject", zap.String("key", key), zap.Error(err))
			} else {
				cur = v
			}
		}
		next, err := fn(cur)
		if err != nil {
			fnErr = err
			return nil, err
		}
		out = next
		return c.Encode(next)
	})
	if fnErr != nil {
		var zero T
		return zero, fnErr
	}
	if err != nil {
		s.log.Error("record.mutate", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, fmt.Errorf("%s: %w", key, ErrNotPersisted)
	}
	return out, nil
}

func splitEnvelope(raw []byte) (int, json.RawMessage) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return LegacySchema, trimmed
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return LegacySchema, trimmed
	}
	rawSchema, ok1 := probe["schema"]
	data, ok2 := probe["data"]
	if !ok1 || !ok2 {
		return LegacySchema, trimmed
	}
	var schema int
	if err := json.Unmarshal(rawSchema, &schema); err != nil {
		return LegacySchema, trimmed
	}
	return schema, data
}
