package repository

import (
	"context"
	"errors"
	"fmt"

	"bogo-backend/internal/domains/rule/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const ruleColumns = `id, coupon_id, buy_product_ref, buy_quantity, get_product_ref, get_quantity, discount_percentage, max_free_quantity, position, created_at, updated_at`

func scanRule(row pgx.Row) (*model.Rule, error) {
	var rule model.Rule
	err := row.Scan(
		&rule.ID,
		&rule.CouponID,
		&rule.BuyProductRef,
		&rule.BuyQuantity,
		&rule.GetProductRef,
		&rule.GetQuantity,
		&rule.DiscountPercentage,
		&rule.MaxFreeQuantity,
		&rule.Position,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetRules implements RepositoryInterface.GetRules
func (r *postgresRepository) GetRules(ctx context.Context, couponID uuid.UUID) ([]model.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM coupon_rules
		WHERE coupon_id = $1
		ORDER BY position ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, couponID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules: %w", err)
	}
	defer rows.Close()

	var rules []model.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading rules: %w", err)
	}

	return rules, nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM coupon_rules
		WHERE id = $1
	`

	rule, err := scanRule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return rule, nil
}

// ReplaceRules implements RepositoryInterface.ReplaceRules
func (r *postgresRepository) ReplaceRules(ctx context.Context, couponID uuid.UUID, rules []model.Rule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM coupon_rules WHERE coupon_id = $1`, couponID); err != nil {
		return fmt.Errorf("failed to delete old rules: %w", err)
	}

	insert := `
		INSERT INTO coupon_rules (id, coupon_id, buy_product_ref, buy_quantity, get_product_ref, get_quantity, discount_percentage, max_free_quantity, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	for i := range rules {
		rule := &rules[i]
		if _, err := tx.Exec(ctx, insert,
			rule.ID,
			couponID,
			rule.BuyProductRef,
			rule.BuyQuantity,
			rule.GetProductRef,
			rule.GetQuantity,
			rule.DiscountPercentage,
			rule.MaxFreeQuantity,
			i,
		); err != nil {
			return fmt.Errorf("failed to insert rule: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rules: %w", err)
	}

	return nil
}
