package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rule is one buy-x-get-x rule attached to a coupon.
//
// BuyProductRef and GetProductRef reference either a product or one of
// its variants; matching semantics depend on which one it is.
type Rule struct {
	ID       uuid.UUID `json:"id" db:"id"`
	CouponID uuid.UUID `json:"coupon_id" db:"coupon_id"`

	BuyProductRef uuid.UUID `json:"buy_product_ref" db:"buy_product_ref"`
	BuyQuantity   int       `json:"buy_quantity" db:"buy_quantity"`

	GetProductRef uuid.UUID `json:"get_product_ref" db:"get_product_ref"`
	GetQuantity   int       `json:"get_quantity" db:"get_quantity"`

	// DiscountPercentage 100 means fully free
	DiscountPercentage decimal.Decimal `json:"discount_percentage" db:"discount_percentage"`

	// MaxFreeQuantity nil means unlimited
	MaxFreeQuantity *int `json:"max_free_quantity" db:"max_free_quantity"`

	// Position preserves the admin-authored ordering within the coupon
	Position int `json:"position" db:"position"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EligibleFreeQuantity computes how many free units this rule grants
// for the given bought quantity. The cap applies after the floor.
func (r *Rule) EligibleFreeQuantity(boughtQuantity int) int {
	if r.BuyQuantity <= 0 || boughtQuantity < r.BuyQuantity {
		return 0
	}
	eligible := (boughtQuantity / r.BuyQuantity) * r.GetQuantity
	if r.MaxFreeQuantity != nil && eligible > *r.MaxFreeQuantity {
		eligible = *r.MaxFreeQuantity
	}
	return eligible
}

// Qualifies reports whether the bought quantity meets the buy threshold,
// ignoring MaxFreeQuantity. Used by auto-apply qualification.
func (r *Rule) Qualifies(boughtQuantity int) bool {
	return r.BuyQuantity > 0 && boughtQuantity >= r.BuyQuantity
}
