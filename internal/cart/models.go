package cart

import "time"

type Cart struct {
	UserID     string    `json:"user_id"`
	Items      []Item    `json:"items"`
	TotalCents int       `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Item carries the price snapshot taken when the product was added, not
// the live product price.
type Item struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	ProductSlug   string `json:"product_slug"`
	Qty           int    `json:"qty"`
	PriceCents    int    `json:"price_cents"`
	SubtotalCents int    `json:"subtotal_cents"`
}
