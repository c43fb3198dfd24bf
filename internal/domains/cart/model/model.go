package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart represents a shopping cart for authenticated and anonymous users.
// AppliedCoupons preserves the order in which coupon codes were applied.
type Cart struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         *uuid.UUID `json:"user_id" db:"user_id"`
	SessionID      *string    `json:"session_id" db:"session_id"`
	AppliedCoupons []string   `json:"applied_coupons" db:"applied_coupons"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	ExpiresAt      time.Time  `json:"expires_at" db:"expires_at"`
}

// IsExpired checks if cart has expired
func (c *Cart) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// HasCoupon checks if the given code is already applied to the cart
func (c *Cart) HasCoupon(code string) bool {
	for _, applied := range c.AppliedCoupons {
		if applied == code {
			return true
		}
	}
	return false
}

// FreeLineTag marks a cart line as a promotional free item. A line
// carries either all four fields or none of them.
type FreeLineTag struct {
	CouponCode         string          `json:"coupon_code" db:"free_coupon_code"`
	RuleID             uuid.UUID       `json:"rule_id" db:"free_rule_id"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" db:"free_discount_percentage"`
	UniqueKey          string          `json:"unique_key" db:"free_unique_key"`
}

// DiscountedPrice applies the promotional discount to a unit price.
// Callers pass the live product price so the charge follows catalog
// price changes made after the grant.
func (t *FreeLineTag) DiscountedPrice(price decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(t.DiscountPercentage.Div(decimal.NewFromInt(100)))
	return price.Mul(factor)
}

// CartLine represents one line in a shopping cart.
//
// ProductID always points at the top-level product; VariantID is set
// when the line holds a specific variant. FreeTag is nil for paid
// lines and fully populated for promotional free lines.
type CartLine struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CartID    uuid.UUID  `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID  `json:"product_id" db:"product_id"`
	VariantID *uuid.UUID `json:"variant_id" db:"variant_id"`
	Quantity  int        `json:"quantity" db:"quantity"`

	// Price is the unit price snapshot at the time of adding
	Price decimal.Decimal `json:"price" db:"price"`

	FreeTag *FreeLineTag `json:"free_tag,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsFree reports whether the line is a promotional free item
func (l *CartLine) IsFree() bool {
	return l.FreeTag != nil
}

// EffectiveRef returns the reference the line trades as when matching
// against rules: the variant when one is set, the product otherwise.
func (l *CartLine) EffectiveRef() uuid.UUID {
	if l.VariantID != nil {
		return *l.VariantID
	}
	return l.ProductID
}

