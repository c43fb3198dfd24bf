package service

import (
	"context"

	"bogo-backend/internal/domains/usage/model"

	"github.com/xuri/excelize/v2"
)

// ServiceInterface defines business logic methods for usage records
type ServiceInterface interface {
	// Record appends one usage record. Called by the background worker
	// once per free line at order finalization.
	Record(ctx context.Context, record *model.UsageRecord) error

	// ListRecords returns raw usage records for admin report views
	ListRecords(ctx context.Context, filter *model.ReportFilter) ([]model.UsageRecord, int, error)

	// SummarizeByCoupon aggregates usage per coupon
	SummarizeByCoupon(ctx context.Context, filter *model.ReportFilter) ([]model.CouponUsageSummary, error)

	// ExportReportToExcel builds an Excel workbook of the summary report
	ExportReportToExcel(ctx context.Context, filter *model.ReportFilter) (*excelize.File, error)
}
