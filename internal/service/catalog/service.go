package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"onova-storefront/internal/content"
	"onova-storefront/internal/domain"
)

// fetcher is the read interface over the content API.
type fetcher interface {
	Fetch(ctx context.Context, path string) (json.RawMessage, error)
}

// Service answers catalog queries. Collection queries degrade to empty
// results when the upstream is unreachable; only lookups by slug report
// errors, so a broken CMS renders an empty shop instead of a dead one.
type Service struct {
	client fetcher
	host   string
	logger *log.Logger
}

func New(client fetcher, host string, logger *log.Logger) *Service {
	return &Service{client: client, host: host, logger: logger}
}

// ListOptions narrows a product listing.
type ListOptions struct {
	Category string
	Search   string
	Limit    int
}

const productListBase = "/api/products?populate[images][fields][0]=url&populate[categories][fields][0]=name"

func (s *Service) Products(ctx context.Context, opts ListOptions) []domain.Product {
	path := productListBase
	if opts.Category != "" {
		path += "&filters[categories][slug][$eq]=" + url.QueryEscape(opts.Category)
	}
	if opts.Search != "" {
		path += "&filters[name][$containsi]=" + url.QueryEscape(opts.Search)
	}
	if opts.Limit > 0 {
		path += fmt.Sprintf("&pagination[limit]=%d", opts.Limit)
	}
	return s.productList(ctx, path)
}

// NewestProducts lists products created within the last week, newest
// first.
func (s *Service) NewestProducts(ctx context.Context, limit int) []domain.Product {
	oneWeekAgo := time.Now().UTC().AddDate(0, 0, -7).Format(time.RFC3339)
	path := productListBase +
		"&filters[createdAt][$gte]=" + url.QueryEscape(oneWeekAgo) +
		"&sort=createdAt:desc"
	if limit > 0 {
		path += fmt.Sprintf("&pagination[limit]=%d", limit)
	}
	return s.productList(ctx, path)
}

// TaggedProducts lists products carrying the given tag, newest first.
func (s *Service) TaggedProducts(ctx context.Context, tag string, limit int) []domain.Product {
	path := productListBase +
		"&filters[tags][name][$eq]=" + url.QueryEscape(tag) +
		"&sort=createdAt:desc"
	if limit > 0 {
		path += fmt.Sprintf("&pagination[limit]=%d", limit)
	}
	return s.productList(ctx, path)
}

// Search finds products whose name contains the query.
func (s *Service) Search(ctx context.Context, query string, limit int) []domain.Product {
	if query == "" {
		return []domain.Product{}
	}
	return s.Products(ctx, ListOptions{Search: query, Limit: limit})
}

// ProductBySlug fetches one product with its full relations and live
// stock. Returns domain.ErrNotFound when the slug matches nothing.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	path := "/api/products?filters[slug][$eq]=" + url.QueryEscape(slug) + "&populate=*"
	raw, err := s.client.Fetch(ctx, path)
	if err != nil {
		return domain.Product{}, fmt.Errorf("fetch product %q: %w", slug, err)
	}
	products, err := content.ParseProductList(raw, s.host)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse product %q: %w", slug, err)
	}
	if len(products) == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return products[0], nil
}

func (s *Service) Categories(ctx context.Context) []domain.Category {
	raw, err := s.client.Fetch(ctx, "/api/categories?populate=*")
	if err != nil {
		s.logger.Printf("fetch categories: %v", err)
		return []domain.Category{}
	}
	categories, err := content.ParseCategoryList(raw, s.host)
	if err != nil {
		s.logger.Printf("parse categories: %v", err)
		return []domain.Category{}
	}
	return categories
}

// CategoryBySlug returns domain.ErrNotFound when the slug matches
// nothing.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	path := "/api/categories?filters[slug][$eq]=" + url.QueryEscape(slug) + "&populate=*"
	raw, err := s.client.Fetch(ctx, path)
	if err != nil {
		return domain.Category{}, fmt.Errorf("fetch category %q: %w", slug, err)
	}
	categories, err := content.ParseCategoryList(raw, s.host)
	if err != nil {
		return domain.Category{}, fmt.Errorf("parse category %q: %w", slug, err)
	}
	if len(categories) == 0 {
		return domain.Category{}, domain.ErrNotFound
	}
	return categories[0], nil
}

// HomeContent never fails; the landing page falls back to static copy.
func (s *Service) HomeContent(ctx context.Context) domain.HomeContent {
	fallback := domain.HomeContent{
		Title:       "Bienvenido a Onovateth",
		Description: "No se pudo cargar el contenido.",
	}
	raw, err := s.client.Fetch(ctx, "/api/Home")
	if err != nil {
		s.logger.Printf("fetch home content: %v", err)
		return fallback
	}
	home, ok := content.ParseHome(raw)
	if !ok {
		return fallback
	}
	return home
}

// BannerURL returns "" when the banner is not configured or the
// upstream is unreachable.
func (s *Service) BannerURL(ctx context.Context) string {
	raw, err := s.client.Fetch(ctx, "/api/banner-home?populate=*")
	if err != nil {
		s.logger.Printf("fetch banner: %v", err)
		return ""
	}
	return content.ParseBannerURL(raw, s.host)
}

func (s *Service) productList(ctx context.Context, path string) []domain.Product {
	raw, err := s.client.Fetch(ctx, path)
	if err != nil {
		s.logger.Printf("fetch products: %v", err)
		return []domain.Product{}
	}
	products, err := content.ParseProductList(raw, s.host)
	if err != nil {
		s.logger.Printf("parse products: %v", err)
		return []domain.Product{}
	}
	return products
}
