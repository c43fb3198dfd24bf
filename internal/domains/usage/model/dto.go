package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ReportFilter narrows usage report queries
type ReportFilter struct {
	CouponCode *string    `json:"coupon_code" form:"coupon_code"`
	From       *time.Time `json:"from" form:"from" time_format:"2006-01-02"`
	To         *time.Time `json:"to" form:"to" time_format:"2006-01-02"`
	Page       int        `json:"page" form:"page"`
	PageSize   int        `json:"page_size" form:"page_size"`
}

// Validate validates ReportFilter
func (f ReportFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Page, validation.Min(0)),
		validation.Field(&f.PageSize, validation.Min(0), validation.Max(200)),
	)
}

// Normalize applies pagination defaults
func (f *ReportFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 50
	}
}

// CouponUsageSummary aggregates usage per coupon for report views
type CouponUsageSummary struct {
	CouponCode     string     `json:"coupon_code" db:"coupon_code"`
	TimesUsed      int        `json:"times_used" db:"times_used"`
	TotalFreeItems int        `json:"total_free_items" db:"total_free_items"`
	DistinctOrders int        `json:"distinct_orders" db:"distinct_orders"`
	FirstUsedAt    *time.Time `json:"first_used_at" db:"first_used_at"`
	LastUsedAt     *time.Time `json:"last_used_at" db:"last_used_at"`
}

// UsageRecordResponse represents a usage record in API responses
type UsageRecordResponse struct {
	ID           uuid.UUID  `json:"id"`
	RuleID       uuid.UUID  `json:"rule_id"`
	CouponCode   string     `json:"coupon_code"`
	OrderID      uuid.UUID  `json:"order_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	FreeQuantity int        `json:"free_quantity"`
	UsedAt       time.Time  `json:"used_at"`
}

// ToResponse converts UsageRecord to UsageRecordResponse
func (u *UsageRecord) ToResponse() *UsageRecordResponse {
	return &UsageRecordResponse{
		ID:           u.ID,
		RuleID:       u.RuleID,
		CouponCode:   u.CouponCode,
		OrderID:      u.OrderID,
		UserID:       u.UserID,
		FreeQuantity: u.FreeQuantity,
		UsedAt:       u.UsedAt,
	}
}
