package repository

import (
	"context"

	"bogo-backend/internal/domains/usage/model"
)

// RepositoryInterface defines data access methods for usage records.
// The table is append-only; there are no update or delete methods.
type RepositoryInterface interface {
	// Insert appends one usage record
	Insert(ctx context.Context, record *model.UsageRecord) error

	// ListRecords returns raw usage records matching the filter
	// Returns: records, total count, error
	ListRecords(ctx context.Context, filter *model.ReportFilter) ([]model.UsageRecord, int, error)

	// SummarizeByCoupon aggregates usage per coupon over the filter window
	SummarizeByCoupon(ctx context.Context, filter *model.ReportFilter) ([]model.CouponUsageSummary, error)
}
