package handlers

import (
	"go.uber.org/zap"

	"kemstore/internal/config"
	"kemstore/internal/kv"
	"kemstore/internal/repos"
	"kemstore/internal/services"
)

// Deps wires the repositories and services behind every handler.
type Deps struct {
	Storage *kv.Storage
	Users   *repos.UserRepo
	Seeder  *services.Seeder
	Auth    *services.AuthService

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	SearchHandler    *SearchHandler
	CartHandler      *CartHandler
	FavoritesHandler *FavoritesHandler
	OrderHandler     *OrderHandler
	ProfileHandler   *ProfileHandler
}

func NewDeps(storage *kv.Storage, cfg config.Config, logger *zap.Logger) *Deps {
	catalog := repos.MustCatalogRepo()
	userRepo := repos.NewUserRepo(storage, cfg.BcryptCost)
	cartRepo := repos.NewCartRepo(storage)
	favRepo := repos.NewFavoritesRepo(storage)
	orderRepo := repos.NewOrderRepo(storage, catalog)

	authSvc := services.NewAuthService(userRepo, cfg.BcryptCost)
	catalogSvc := services.NewCatalogService(catalog)
	cartSvc := services.NewCartService(cartRepo, catalog)
	favSvc := services.NewFavoritesService(favRepo, catalog)
	orderSvc := services.NewOrderService(cartRepo, orderRepo, catalog, cfg.OrderHistoryLimit)
	profileSvc := services.NewProfileService(userRepo)
	seeder := services.NewSeeder(userRepo, cartRepo, favRepo, orderRepo, catalog, cfg.BcryptCost, logger)

	return &Deps{
		Storage: storage,
		Users:   userRepo,
		Seeder:  seeder,
		Auth:    authSvc,

		AuthHandler:      &AuthHandler{Auth: authSvc, Secure: cfg.CookieSecure},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Auth: authSvc, Favorites: favSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		FavoritesHandler: &FavoritesHandler{Favorites: favSvc},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
		ProfileHandler:   &ProfileHandler{Profile: profileSvc},
	}
}
