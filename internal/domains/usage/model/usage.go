package model

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one append-only row recording a granted free line
// at order finalization. Records are never updated or deleted.
type UsageRecord struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	RuleID       uuid.UUID  `json:"rule_id" db:"rule_id"`
	CouponCode   string     `json:"coupon_code" db:"coupon_code"`
	OrderID      uuid.UUID  `json:"order_id" db:"order_id"`
	UserID       *uuid.UUID `json:"user_id" db:"user_id"`
	FreeQuantity int        `json:"free_quantity" db:"free_quantity"`
	UsedAt       time.Time  `json:"used_at" db:"used_at"`
}
