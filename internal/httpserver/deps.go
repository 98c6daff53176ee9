package httpserver

import (
	"context"

	cartstate "onova-storefront/internal/cart"
	"onova-storefront/internal/cartstore"
	"onova-storefront/internal/domain"
	"onova-storefront/internal/service/catalog"
	"onova-storefront/internal/service/stock"
)

type catalogService interface {
	Products(ctx context.Context, opts catalog.ListOptions) []domain.Product
	NewestProducts(ctx context.Context, limit int) []domain.Product
	TaggedProducts(ctx context.Context, tag string, limit int) []domain.Product
	Search(ctx context.Context, query string, limit int) []domain.Product
	ProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	Categories(ctx context.Context) []domain.Category
	CategoryBySlug(ctx context.Context, slug string) (domain.Category, error)
	HomeContent(ctx context.Context) domain.HomeContent
	BannerURL(ctx context.Context) string
}

type cartService interface {
	AddToCart(ctx context.Context, sessionID string, snap domain.ProductSnapshot, quantity int) cartstate.State
	RemoveFromCart(ctx context.Context, sessionID, productID string) cartstate.State
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) cartstate.State
	ClearCart(ctx context.Context, sessionID string) cartstate.State
	Cart(ctx context.Context, sessionID string) cartstate.State
	ItemQuantity(ctx context.Context, sessionID, productID string) int
}

// Deps carries the wired services the router needs.
type Deps struct {
	Catalog catalogService
	Cart    cartService
	Stock   *stock.Tracker
	Store   cartstore.Store
}
