package orders

import "time"

// Order is an immutable purchase record; only its status transitions.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Status     Status    `json:"status"`
	TotalCents int       `json:"total_cents"`
	Items      []Item    `json:"items"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Item keeps the price snapshot copied from the cart at checkout time.
type Item struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Qty           int    `json:"qty"`
	PriceCents    int    `json:"price_cents"`
	SubtotalCents int    `json:"subtotal_cents"`
}

// ListFilter narrows the caller's order listing.
type ListFilter struct {
	Status       Status
	CreatedSince time.Time
	Ordering     string // created_at | -created_at
}
