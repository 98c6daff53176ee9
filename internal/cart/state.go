package cart

import (
	"github.com/shopspring/decimal"

	"onova-storefront/internal/domain"
)

// Line is one cart entry per distinct product. Display fields are the
// add-time snapshot; StockAtAdd is the remote stock known when the line
// was created, kept only as a ceiling reference.
type Line struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	Slug       string          `json:"slug,omitempty"`
	Quantity   int             `json:"quantity"`
	StockAtAdd int             `json:"stockAtAddTime"`
}

// State is the whole cart. Lines keep insertion order and unique
// product ids; the totals are always derived from Lines, never patched
// independently.
type State struct {
	Lines          []Line          `json:"lines"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	TotalItemCount int             `json:"totalItemCount"`
}

// Empty returns the initial cart state.
func Empty() State {
	return State{Lines: []Line{}, TotalPrice: decimal.Zero}
}

// Quantity reports how many units of the product the cart holds, zero
// if the product is not in the cart.
func (s State) Quantity(productID string) int {
	for _, line := range s.Lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

func newLine(snap domain.ProductSnapshot, quantity int) Line {
	return Line{
		ProductID:  snap.ProductID,
		Name:       snap.Name,
		UnitPrice:  snap.UnitPrice,
		ImageURL:   snap.ImageURL,
		Slug:       snap.Slug,
		Quantity:   quantity,
		StockAtAdd: snap.Stock,
	}
}

// recompute builds a State whose totals are the sums over lines. Every
// transition goes through here, so the totals can never drift.
func recompute(lines []Line) State {
	total := decimal.Zero
	count := 0
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		count += line.Quantity
	}
	return State{Lines: lines, TotalPrice: total, TotalItemCount: count}
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
