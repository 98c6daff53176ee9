package content

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

const host = "https://cms.example.com"

func TestParseProductListFlatShape(t *testing.T) {
	raw := json.RawMessage(`{
		"data": [
			{
				"id": 7,
				"name": "Keyboard",
				"slug": "keyboard",
				"description": "A keyboard",
				"price": 49.99,
				"stock": 12,
				"createdAt": "2026-08-01T10:00:00.000Z",
				"images": [{"url": "/uploads/kb.png"}],
				"categories": [{"name": "Peripherals", "slug": "peripherals"}],
				"tags": [{"name": "new"}]
			}
		]
	}`)
	products, err := ParseProductList(raw, host)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.ID != "7" || p.Slug != "keyboard" || p.Name != "Keyboard" {
		t.Fatalf("unexpected identity %+v", p)
	}
	if !p.Price.Equal(decimal.RequireFromString("49.99")) || p.Stock != 12 {
		t.Fatalf("unexpected price/stock %+v", p)
	}
	if p.ImageURL != "https://cms.example.com/uploads/kb.png" {
		t.Fatalf("image url not resolved: %q", p.ImageURL)
	}
	if len(p.Categories) != 1 || p.Categories[0] != "Peripherals" {
		t.Fatalf("unexpected categories %v", p.Categories)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "new" {
		t.Fatalf("unexpected tags %v", p.Tags)
	}
}

func TestParseProductListNestedShape(t *testing.T) {
	raw := json.RawMessage(`{
		"data": [
			{
				"id": "abc",
				"attributes": {
					"name": "Mouse",
					"slug": "mouse",
					"price": 19.5,
					"stock": 3,
					"images": {"data": [{"attributes": {"url": "https://cdn.example.com/mouse.png"}}]},
					"categories": {"data": [{"attributes": {"name": "Peripherals"}}]}
				}
			}
		]
	}`)
	products, err := ParseProductList(raw, host)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.ID != "abc" || p.Name != "Mouse" {
		t.Fatalf("unexpected identity %+v", p)
	}
	if p.ImageURL != "https://cdn.example.com/mouse.png" {
		t.Fatalf("absolute image url was rewritten: %q", p.ImageURL)
	}
	if len(p.Categories) != 1 || p.Categories[0] != "Peripherals" {
		t.Fatalf("unexpected categories %v", p.Categories)
	}
}

func TestParseProductListSingleObject(t *testing.T) {
	raw := json.RawMessage(`{"data": {"id": 1, "name": "Solo", "slug": "solo", "price": 5, "stock": 1}}`)
	products, err := ParseProductList(raw, host)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Solo" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestParseProductListEmptyAndNull(t *testing.T) {
	for _, raw := range []string{`{"data": []}`, `{"data": null}`, `{}`} {
		products, err := ParseProductList(json.RawMessage(raw), host)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if len(products) != 0 {
			t.Fatalf("expected empty list for %q", raw)
		}
	}
}

func TestNormalizeClampsNegativeStockAndPrice(t *testing.T) {
	raw := json.RawMessage(`{"data": [{"id": 1, "name": "Odd", "price": -3.5, "stock": -2}]}`)
	products, err := ParseProductList(raw, host)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if products[0].Stock != 0 || !products[0].Price.IsZero() {
		t.Fatalf("negative values not clamped: %+v", products[0])
	}
}

func TestNormalizeUsesPlaceholderWithoutImages(t *testing.T) {
	raw := json.RawMessage(`{"data": [{"id": 1, "name": "Bare", "price": 1, "stock": 1}]}`)
	products, err := ParseProductList(raw, host)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if products[0].ImageURL != placeholderImage {
		t.Fatalf("expected placeholder image, got %q", products[0].ImageURL)
	}
}

func TestParseProductRichTextDescription(t *testing.T) {
	raw := json.RawMessage(`{"data": [{"id": 1, "name": "Rich", "price": 1, "stock": 1,
		"description": [
			{"type": "paragraph", "children": [{"text": "First "}, {"text": "part"}]},
			{"type": "heading", "children": [{"text": "Second"}]}
		]}]}`)
	products, err := ParseProductList(raw, host)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if products[0].Description != "First part\nSecond" {
		t.Fatalf("unexpected description %q", products[0].Description)
	}
}

func TestParseCategoryListBothShapes(t *testing.T) {
	raw := json.RawMessage(`{
		"data": [
			{"id": 1, "name": "Audio", "slug": "audio", "image": {"url": "/uploads/audio.png"}},
			{"id": 2, "attributes": {"name": "Video", "slug": "video"}}
		]
	}`)
	categories, err := ParseCategoryList(raw, host)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Slug != "audio" || categories[0].ImageURL != "https://cms.example.com/uploads/audio.png" {
		t.Fatalf("unexpected first category %+v", categories[0])
	}
	if categories[1].Name != "Video" || categories[1].Slug != "video" {
		t.Fatalf("unexpected second category %+v", categories[1])
	}
}

func TestParseHome(t *testing.T) {
	raw := json.RawMessage(`{"data": {"WelcomeTitle": "Hola",
		"WelcomeDescription": [{"type": "paragraph", "children": [{"text": "Bienvenido"}]}]}}`)
	home, ok := ParseHome(raw)
	if !ok {
		t.Fatalf("expected usable home content")
	}
	if home.Title != "Hola" || home.Description != "Bienvenido" {
		t.Fatalf("unexpected home %+v", home)
	}

	if _, ok := ParseHome(json.RawMessage(`{"data": null}`)); ok {
		t.Fatalf("expected no content for null data")
	}
}

func TestParseBannerURLBothShapes(t *testing.T) {
	flat := json.RawMessage(`{"data": {"image": {"url": "/uploads/banner.png"}}}`)
	if got := ParseBannerURL(flat, host); got != "https://cms.example.com/uploads/banner.png" {
		t.Fatalf("unexpected flat banner url %q", got)
	}

	nested := json.RawMessage(`{"data": {"attributes": {"image": {"data": {"attributes": {"url": "/uploads/b2.png"}}}}}}`)
	if got := ParseBannerURL(nested, host); got != "https://cms.example.com/uploads/b2.png" {
		t.Fatalf("unexpected nested banner url %q", got)
	}

	if got := ParseBannerURL(json.RawMessage(`{"data": null}`), host); got != "" {
		t.Fatalf("expected empty url, got %q", got)
	}
}
