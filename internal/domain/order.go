package domain

import (
	"math"
	"time"
)

// Order is a completed purchase, embedded in the buying user's history.
//
// Line-item prices are snapshots of the catalog price at the moment of
// purchase. Once created an order is never mutated or deleted.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is one purchased line.
type OrderItem struct {
	BookSlug string  `json:"book_slug"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // price at purchase, immutable
}

// OrderedSlugs returns the set of slugs this order covers,
// used to prune exactly those lines from the cart.
func (o *Order) OrderedSlugs() map[string]bool {
	slugs := make(map[string]bool, len(o.Items))
	for _, item := range o.Items {
		slugs[item.BookSlug] = true
	}
	return slugs
}

// OrderTotal computes Σ(price × quantity) over the given lines,
// rounded to cents.
func OrderTotal(items []OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100
}
