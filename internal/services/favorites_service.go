package services

import (
	"context"
	"slices"

	"kemstore/internal/domain"
	"kemstore/internal/repos"
)

type FavoritesService struct {
	Favorites *repos.FavoritesRepo
	Catalog   *repos.CatalogRepo
}

func NewFavoritesService(favs *repos.FavoritesRepo, catalog *repos.CatalogRepo) *FavoritesService {
	return &FavoritesService{Favorites: favs, Catalog: catalog}
}

// Toggle flips membership of productID and reports whether it is now a
// favorite.
func (s *FavoritesService) Toggle(ctx context.Context, sess *Session, productID string) (bool, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return false, err
	}
	var added bool
	_, err = s.Favorites.Mutate(ctx, uid, func(ids []string) ([]string, error) {
		if i := slices.Index(ids, productID); i >= 0 {
			added = false
			return slices.Delete(slices.Clone(ids), i, i+1), nil
		}
		added = true
		return append(ids, productID), nil
	})
	return added, err
}

// Add is idempotent.
func (s *FavoritesService) Add(ctx context.Context, sess *Session, productID string) error {
	uid, err := sess.requireUser()
	if err != nil {
		return err
	}
	_, err = s.Favorites.Mutate(ctx, uid, func(ids []string) ([]string, error) {
		if slices.Contains(ids, productID) {
			return ids, nil
		}
		return append(ids, productID), nil
	})
	return err
}

func (s *FavoritesService) Remove(ctx context.Context, sess *Session, productID string) error {
	uid, err := sess.requireUser()
	if err != nil {
		return err
	}
	_, err = s.Favorites.Mutate(ctx, uid, func(ids []string) ([]string, error) {
		return slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == productID }), nil
	})
	return err
}

// IsFavorite is false for anonymous sessions.
func (s *FavoritesService) IsFavorite(ctx context.Context, sess *Session, productID string) bool {
	if !sess.Authenticated() {
		return false
	}
	return slices.Contains(s.Favorites.List(ctx, sess.User.ID), productID)
}

func (s *FavoritesService) List(ctx context.Context, sess *Session) []string {
	if !sess.Authenticated() {
		return []string{}
	}
	return s.Favorites.List(ctx, sess.User.ID)
}

// Products resolves the favorites against the catalog, in catalog order.
// Ids no longer in the catalog are skipped.
func (s *FavoritesService) Products(ctx context.Context, sess *Session) []domain.Product {
	ids := s.List(ctx, sess)
	out := []domain.Product{}
	for _, p := range s.Catalog.Products() {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	return out
}
