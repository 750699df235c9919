package catalog

import "time"

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID             string          `json:"id"`
	CategoryID     string          `json:"category_id"`
	CategorySlug   string          `json:"category_slug"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	PriceCents     int             `json:"price_cents"`
	Stock          int             `json:"stock"`
	Specifications []Specification `json:"specifications,omitempty"`
	Images         []Image         `json:"images,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Specification struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductInput struct {
	CategorySlug   string          `json:"category_slug"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	PriceCents     int             `json:"price_cents"`
	Stock          int             `json:"stock"`
	Specifications []Specification `json:"specifications"`
	Images         []Image         `json:"images"`
}

// ProductFilter narrows and orders the product listing. Ordering always
// resolves to an explicit ORDER BY so paginated pages stay stable.
type ProductFilter struct {
	CategorySlug string
	StockGTE     *int
	Search       string
	Ordering     string // price | -price | created_at | -created_at
	Limit        int
	Offset       int
}
