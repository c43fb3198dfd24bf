package service

import (
	"context"
	"fmt"
	"time"

	"bogo-backend/internal/domains/usage/model"
	repo "bogo-backend/internal/domains/usage/repository"
	"bogo-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type UsageService struct {
	repository repo.RepositoryInterface
}

func NewUsageService(r repo.RepositoryInterface) ServiceInterface {
	return &UsageService{repository: r}
}

// Record implements ServiceInterface.Record
func (s *UsageService) Record(ctx context.Context, record *model.UsageRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.UsedAt.IsZero() {
		record.UsedAt = time.Now()
	}

	if err := s.repository.Insert(ctx, record); err != nil {
		return err
	}

	logger.Info("usage recorded", map[string]interface{}{
		"rule_id":       record.RuleID.String(),
		"order_id":      record.OrderID.String(),
		"coupon_code":   record.CouponCode,
		"free_quantity": record.FreeQuantity,
	})

	return nil
}

// ListRecords implements ServiceInterface.ListRecords
func (s *UsageService) ListRecords(ctx context.Context, filter *model.ReportFilter) ([]model.UsageRecord, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	filter.Normalize()
	return s.repository.ListRecords(ctx, filter)
}

// SummarizeByCoupon implements ServiceInterface.SummarizeByCoupon
func (s *UsageService) SummarizeByCoupon(ctx context.Context, filter *model.ReportFilter) ([]model.CouponUsageSummary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.Normalize()
	return s.repository.SummarizeByCoupon(ctx, filter)
}

// ExportReportToExcel implements ServiceInterface.ExportReportToExcel
func (s *UsageService) ExportReportToExcel(ctx context.Context, filter *model.ReportFilter) (*excelize.File, error) {
	summaries, err := s.SummarizeByCoupon(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}

	f, err := buildReportExcelFile(summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	return f, nil
}

func buildReportExcelFile(summaries []model.CouponUsageSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Coupon usage"
	// Rename default sheet
	f.SetSheetName("Sheet1", sheetName)

	// Row 1: Header
	headers := []string{
		"Coupon Code",
		"Times Used",
		"Total Free Items",
		"Distinct Orders",
		"First Used At",
		"Last Used At",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "F1", headerStyle)
	}

	// Data rows start at row 2
	for i, summary := range summaries {
		rowNum := i + 2

		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), summary.CouponCode)
		f.SetCellValue(sheetName, cell(2), summary.TimesUsed)
		f.SetCellValue(sheetName, cell(3), summary.TotalFreeItems)
		f.SetCellValue(sheetName, cell(4), summary.DistinctOrders)
		if summary.FirstUsedAt != nil {
			f.SetCellValue(sheetName, cell(5), summary.FirstUsedAt.Format(time.RFC3339))
		}
		if summary.LastUsedAt != nil {
			f.SetCellValue(sheetName, cell(6), summary.LastUsedAt.Format(time.RFC3339))
		}
	}

	return f, nil
}
