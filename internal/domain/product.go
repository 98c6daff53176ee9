package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical product shape used across the storefront.
// It is produced exclusively by the content normalization boundary;
// nothing downstream branches on upstream record shapes.
type Product struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Images      []string        `json:"images,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductSnapshot is the display-only slice of a product a cart line
// keeps from the moment it was added. It is never refreshed from the
// catalog while the line exists.
type ProductSnapshot struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Slug      string          `json:"slug,omitempty"`
	Stock     int             `json:"stock"`
}

// Snapshot captures the add-time view of the product for the cart.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		Slug:      p.Slug,
		Stock:     p.Stock,
	}
}
