package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product or one of its variants.
// A variant carries a non-nil ParentID pointing at its parent product.
type Product struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	ParentID *uuid.UUID `json:"parent_id" db:"parent_id"`

	Name string `json:"name" db:"name"`
	SKU  string `json:"sku" db:"sku"`

	Price decimal.Decimal `json:"price" db:"price"`

	// StockQuantity nil means stock is not tracked
	StockQuantity *int `json:"stock_quantity" db:"stock_quantity"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsVariant reports whether the product is a variant of another product
func (p *Product) IsVariant() bool {
	return p.ParentID != nil
}

// InStock reports whether the product can currently be added to a cart
func (p *Product) InStock() bool {
	if !p.IsActive {
		return false
	}
	if p.StockQuantity == nil {
		return true
	}
	return *p.StockQuantity > 0
}

// Resolution is the snapshot the cart and promotion flows need about
// a referenced product. Missing products resolve with Exists=false.
type Resolution struct {
	Ref         uuid.UUID       `json:"ref"`
	Exists      bool            `json:"exists"`
	IsVariant   bool            `json:"is_variant"`
	ParentID    *uuid.UUID      `json:"parent_id,omitempty"`
	InStock     bool            `json:"in_stock"`
	Price       decimal.Decimal `json:"price"`
	DisplayName string          `json:"display_name"`
}

// ToResolution builds the promotion-facing snapshot of a product
func (p *Product) ToResolution() *Resolution {
	return &Resolution{
		Ref:         p.ID,
		Exists:      true,
		IsVariant:   p.IsVariant(),
		ParentID:    p.ParentID,
		InStock:     p.InStock(),
		Price:       p.Price,
		DisplayName: p.Name,
	}
}
