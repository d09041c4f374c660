package repos

import (
	"context"
	"encoding/json"

	"kemstore/internal/kv"
)

// FavoritesRepo keeps the ordered list of a user's favorite product ids.
type FavoritesRepo struct {
	s     *kv.Storage
	codec kv.Codec[[]string]
}

func NewFavoritesRepo(s *kv.Storage) *FavoritesRepo {
	return &FavoritesRepo{s: s, codec: kv.Codec[[]string]{
		Version: 1,
		Upgrade: func(_ int, raw json.RawMessage) ([]string, error) {
			var ids []string
			if err := json.Unmarshal(raw, &ids); err != nil {
				return nil, err
			}
			return dedupe(ids), nil
		},
	}}
}

func noFavorites() []string { return []string{} }

func (r *FavoritesRepo) Exists(ctx context.Context, userID string) bool {
	return r.s.Exists(ctx, FavoritesKey(userID))
}

func (r *FavoritesRepo) List(ctx context.Context, userID string) []string {
	return r.codec.Load(ctx, r.s, FavoritesKey(userID), noFavorites())
}

func (r *FavoritesRepo) Save(ctx context.Context, userID string, ids []string) bool {
	return r.codec.Save(ctx, r.s, FavoritesKey(userID), dedupe(ids))
}

func (r *FavoritesRepo) Mutate(ctx context.Context, userID string, fn func([]string) ([]string, error)) ([]string, error) {
	return r.codec.Mutate(ctx, r.s, FavoritesKey(userID), noFavorites, func(ids []string) ([]string, error) {
		next, err := fn(ids)
		if err != nil {
			return nil, err
		}
		return dedupe(next), nil
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
