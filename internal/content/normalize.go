package content

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"onova-storefront/internal/domain"
)

// The upstream API emits records in two shapes: flat objects and the
// older {"id": ..., "attributes": {...}} nesting, with relations either
// as plain arrays or wrapped in {"data": ...}. Everything is folded
// into the canonical domain types here; no other package may branch on
// record shape.

const placeholderImage = "/placeholder.png"

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type idValue string

func (v *idValue) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*v = idValue(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = idValue(s)
	return nil
}

// refEntry is one related record (image, category, tag) in either shape.
type refEntry struct {
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	URL        string    `json:"url"`
	Attributes *refEntry `json:"attributes"`
}

func (e refEntry) name() string {
	if e.Attributes != nil && e.Attributes.Name != "" {
		return e.Attributes.Name
	}
	return e.Name
}

func (e refEntry) slug() string {
	if e.Attributes != nil && e.Attributes.Slug != "" {
		return e.Attributes.Slug
	}
	return e.Slug
}

func (e refEntry) url() string {
	if e.Attributes != nil && e.Attributes.URL != "" {
		return e.Attributes.URL
	}
	return e.URL
}

// refList accepts null, a bare array, a single object, or any of those
// wrapped in {"data": ...}.
type refList struct {
	entries []refEntry
}

func (l *refList) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" || trimmed == "" {
		l.entries = nil
		return nil
	}
	var wrapped envelope
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Data != nil {
		return l.UnmarshalJSON(wrapped.Data)
	}
	var many []refEntry
	if err := json.Unmarshal(b, &many); err == nil {
		l.entries = many
		return nil
	}
	var one refEntry
	if err := json.Unmarshal(b, &one); err == nil {
		l.entries = []refEntry{one}
		return nil
	}
	// unrecognized relation payloads are treated as absent
	l.entries = nil
	return nil
}

type productFields struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description json.RawMessage `json:"description"`
	Price       float64         `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
	Images      refList         `json:"images"`
	Categories  refList         `json:"categories"`
	Tags        refList         `json:"tags"`
}

type productRecord struct {
	ID idValue `json:"id"`
	productFields
	Attributes *productFields `json:"attributes"`
}

// ParseProductList decodes a product collection response. A single
// object under "data" yields a one-element list.
func ParseProductList(raw json.RawMessage, host string) ([]domain.Product, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return []domain.Product{}, nil
	}

	var records []productRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		var single productRecord
		if err := json.Unmarshal(env.Data, &single); err != nil {
			return nil, err
		}
		records = []productRecord{single}
	}

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, normalizeProduct(rec, host))
	}
	return products, nil
}

func normalizeProduct(rec productRecord, host string) domain.Product {
	fields := rec.productFields
	if rec.Attributes != nil {
		fields = *rec.Attributes
	}

	var images []string
	for _, entry := range fields.Images.entries {
		if u := resolveMediaURL(host, entry.url()); u != "" {
			images = append(images, u)
		}
	}
	imageURL := placeholderImage
	if len(images) > 0 {
		imageURL = images[0]
	}

	var categories []string
	for _, entry := range fields.Categories.entries {
		if name := entry.name(); name != "" {
			categories = append(categories, name)
		}
	}
	var tags []string
	for _, entry := range fields.Tags.entries {
		if name := entry.name(); name != "" {
			tags = append(tags, name)
		}
	}

	stock := fields.Stock
	if stock < 0 {
		stock = 0
	}
	price := fields.Price
	if price < 0 {
		price = 0
	}

	return domain.Product{
		ID:          string(rec.ID),
		Slug:        fields.Slug,
		Name:        fields.Name,
		Description: flattenRichText(fields.Description),
		Price:       decimal.NewFromFloat(price).Round(2),
		Stock:       stock,
		ImageURL:    imageURL,
		Images:      images,
		Categories:  categories,
		Tags:        tags,
		CreatedAt:   fields.CreatedAt,
	}
}

type categoryFields struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description json.RawMessage `json:"description"`
	Image       refList         `json:"image"`
	Images      refList         `json:"images"`
}

type categoryRecord struct {
	ID idValue `json:"id"`
	categoryFields
	Attributes *categoryFields `json:"attributes"`
}

// ParseCategoryList decodes a category collection response.
func ParseCategoryList(raw json.RawMessage, host string) ([]domain.Category, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return []domain.Category{}, nil
	}

	var records []categoryRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		var single categoryRecord
		if err := json.Unmarshal(env.Data, &single); err != nil {
			return nil, err
		}
		records = []categoryRecord{single}
	}

	categories := make([]domain.Category, 0, len(records))
	for _, rec := range records {
		fields := rec.categoryFields
		if rec.Attributes != nil {
			fields = *rec.Attributes
		}
		imageURL := ""
		for _, entry := range append(fields.Image.entries, fields.Images.entries...) {
			if u := resolveMediaURL(host, entry.url()); u != "" {
				imageURL = u
				break
			}
		}
		categories = append(categories, domain.Category{
			ID:          string(rec.ID),
			Slug:        fields.Slug,
			Name:        fields.Name,
			Description: flattenRichText(fields.Description),
			ImageURL:    imageURL,
		})
	}
	return categories, nil
}

type homeFields struct {
	WelcomeTitle       string          `json:"WelcomeTitle"`
	WelcomeDescription json.RawMessage `json:"WelcomeDescription"`
}

type homeRecord struct {
	homeFields
	Attributes *homeFields `json:"attributes"`
}

// ParseHome decodes the landing page single-type response. The second
// return value reports whether usable content was present.
func ParseHome(raw json.RawMessage) (domain.HomeContent, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return domain.HomeContent{}, false
	}
	var rec homeRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return domain.HomeContent{}, false
	}
	fields := rec.homeFields
	if rec.Attributes != nil {
		fields = *rec.Attributes
	}
	if fields.WelcomeTitle == "" {
		return domain.HomeContent{}, false
	}
	return domain.HomeContent{
		Title:       fields.WelcomeTitle,
		Description: flattenRichText(fields.WelcomeDescription),
	}, true
}

type bannerFields struct {
	Image refList `json:"image"`
}

type bannerRecord struct {
	bannerFields
	Attributes *bannerFields `json:"attributes"`
}

// ParseBannerURL extracts the home banner image URL, "" when absent.
func ParseBannerURL(raw json.RawMessage, host string) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return ""
	}
	var rec bannerRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return ""
	}
	fields := rec.bannerFields
	if rec.Attributes != nil {
		fields = *rec.Attributes
	}
	for _, entry := range fields.Image.entries {
		if u := resolveMediaURL(host, entry.url()); u != "" {
			return u
		}
	}
	return ""
}

// flattenRichText renders either a plain string or a rich-text block
// array down to text.
func flattenRichText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var blocks []struct {
		Type     string `json:"type"`
		Children []struct {
			Text string `json:"text"`
		} `json:"children"`
	}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, block := range blocks {
		var sb strings.Builder
		for _, child := range block.Children {
			sb.WriteString(child.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

func resolveMediaURL(host, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(host, "/") + "/" + strings.TrimLeft(path, "/")
}
