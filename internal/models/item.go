package models

import "time"

const DefaultCategory = "general"

// Item is a catalog product stored as a JSON document.
type Item struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Category  string     `json:"category"`
	Brand     string     `json:"brand"`
	SKU       string     `json:"sku"`
	InStock   bool       `json:"inStock"`
	OwnerID   *string    `json:"ownerId"` // nil for seeded items
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Document is a raw catalog document, possibly projected to a subset of fields.
type Document map[string]any
