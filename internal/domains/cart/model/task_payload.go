package model

import (
	"time"

	"github.com/google/uuid"
)

// RecordBogoUsagePayload records one granted free line at order finalization
type RecordBogoUsagePayload struct {
	RuleID       uuid.UUID  `json:"rule_id"`
	OrderID      uuid.UUID  `json:"order_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	CouponCode   string     `json:"coupon_code"`
	FreeQuantity int        `json:"free_quantity"`
	UsedAt       time.Time  `json:"used_at"` // RFC3339 via JSON
}
