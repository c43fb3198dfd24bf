package repository

import (
	"context"
	"fmt"
	"strings"

	"bogo-backend/internal/domains/usage/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// Insert implements RepositoryInterface.Insert
func (r *postgresRepository) Insert(ctx context.Context, record *model.UsageRecord) error {
	query := `
		INSERT INTO bogo_usage_records (id, rule_id, coupon_code, order_id, user_id, free_quantity, used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.RuleID,
		record.CouponCode,
		record.OrderID,
		record.UserID,
		record.FreeQuantity,
		record.UsedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}

	return nil
}

// filterClause builds the WHERE clause shared by the report queries
func filterClause(filter *model.ReportFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if filter.CouponCode != nil && *filter.CouponCode != "" {
		args = append(args, *filter.CouponCode)
		conditions = append(conditions, fmt.Sprintf("coupon_code = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("used_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("used_at < $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// ListRecords implements RepositoryInterface.ListRecords
func (r *postgresRepository) ListRecords(ctx context.Context, filter *model.ReportFilter) ([]model.UsageRecord, int, error) {
	where, args := filterClause(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM bogo_usage_records ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count usage records: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(`
		SELECT id, rule_id, coupon_code, order_id, user_id, free_quantity, used_at
		FROM bogo_usage_records
		%s
		ORDER BY used_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list usage records: %w", err)
	}
	defer rows.Close()

	var records []model.UsageRecord
	for rows.Next() {
		var record model.UsageRecord
		if err := rows.Scan(
			&record.ID,
			&record.RuleID,
			&record.CouponCode,
			&record.OrderID,
			&record.UserID,
			&record.FreeQuantity,
			&record.UsedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan usage record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading usage records: %w", err)
	}

	return records, total, nil
}

// SummarizeByCoupon implements RepositoryInterface.SummarizeByCoupon
func (r *postgresRepository) SummarizeByCoupon(ctx context.Context, filter *model.ReportFilter) ([]model.CouponUsageSummary, error) {
	where, args := filterClause(filter)

	query := fmt.Sprintf(`
		SELECT
			coupon_code,
			COUNT(*) AS times_used,
			COALESCE(SUM(free_quantity), 0) AS total_free_items,
			COUNT(DISTINCT order_id) AS distinct_orders,
			MIN(used_at) AS first_used_at,
			MAX(used_at) AS last_used_at
		FROM bogo_usage_records
		%s
		GROUP BY coupon_code
		ORDER BY times_used DESC
	`, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}
	defer rows.Close()

	var summaries []model.CouponUsageSummary
	for rows.Next() {
		var summary model.CouponUsageSummary
		if err := rows.Scan(
			&summary.CouponCode,
			&summary.TimesUsed,
			&summary.TotalFreeItems,
			&summary.DistinctOrders,
			&summary.FirstUsedAt,
			&summary.LastUsedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading usage summaries: %w", err)
	}

	return summaries, nil
}
