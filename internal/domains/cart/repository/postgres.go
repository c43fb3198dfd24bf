package repository

import (
	"context"
	"errors"
	"fmt"

	"bogo-backend/internal/domains/cart/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const cartColumns = `id, user_id, session_id, applied_coupons, created_at, updated_at, expires_at`

func scanCart(row pgx.Row) (*model.Cart, error) {
	var cart model.Cart
	err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionID,
		&cart.AppliedCoupons,
		&cart.CreatedAt,
		&cart.UpdatedAt,
		&cart.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if cart.AppliedCoupons == nil {
		cart.AppliedCoupons = []string{}
	}
	return &cart, nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM carts
		WHERE id = $1
	`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, cartID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// GetByUserID implements RepositoryInterface.GetByUserID
func (r *postgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM carts
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY updated_at DESC
		LIMIT 1
	`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - return nil, not error
		}
		return nil, fmt.Errorf("failed to get user cart: %w", err)
	}

	return cart, nil
}

// GetBySessionID implements RepositoryInterface.GetBySessionID
func (r *postgresRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Cart, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM carts
		WHERE session_id = $1 AND expires_at > NOW()
		ORDER BY updated_at DESC
		LIMIT 1
	`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session cart: %w", err)
	}

	return cart, nil
}

// Create implements RepositoryInterface.Create
func (r *postgresRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, session_id, applied_coupons, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		cart.ID,
		cart.UserID,
		cart.SessionID,
		cart.AppliedCoupons,
		cart.CreatedAt,
		cart.UpdatedAt,
		cart.ExpiresAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

// UpdateExpiration implements RepositoryInterface.UpdateExpiration
func (r *postgresRepository) UpdateExpiration(ctx context.Context, cartID uuid.UUID) error {
	query := `
		UPDATE carts
		SET expires_at = NOW() + INTERVAL '30 days', updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, cartID)
	if err != nil {
		return fmt.Errorf("failed to update expiration: %w", err)
	}

	return nil
}

// SetAppliedCoupons implements RepositoryInterface.SetAppliedCoupons
func (r *postgresRepository) SetAppliedCoupons(ctx context.Context, cartID uuid.UUID, codes []string) error {
	query := `
		UPDATE carts
		SET applied_coupons = $2, updated_at = NOW()
		WHERE id = $1
	`

	if codes == nil {
		codes = []string{}
	}

	tag, err := r.pool.Exec(ctx, query, cartID, codes)
	if err != nil {
		return fmt.Errorf("failed to set applied coupons: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartNotFound
	}

	return nil
}

const lineColumns = `
	id, cart_id, product_id, variant_id, quantity, price,
	free_coupon_code, free_rule_id, free_discount_percentage, free_unique_key,
	created_at, updated_at`

func scanLine(row pgx.Row) (*model.CartLine, error) {
	var line model.CartLine
	var couponCode *string
	var ruleID *uuid.UUID
	var discountPct *decimal.Decimal
	var uniqueKey *string

	err := row.Scan(
		&line.ID,
		&line.CartID,
		&line.ProductID,
		&line.VariantID,
		&line.Quantity,
		&line.Price,
		&couponCode,
		&ruleID,
		&discountPct,
		&uniqueKey,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// The four tag columns are set together or not at all
	if couponCode != nil && ruleID != nil && discountPct != nil && uniqueKey != nil {
		line.FreeTag = &model.FreeLineTag{
			CouponCode:         *couponCode,
			RuleID:             *ruleID,
			DiscountPercentage: *discountPct,
			UniqueKey:          *uniqueKey,
		}
	}

	return &line, nil
}

// ListLines implements RepositoryInterface.ListLines
func (r *postgresRepository) ListLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading cart lines: %w", err)
	}

	return lines, nil
}

// GetLineByID implements RepositoryInterface.GetLineByID
func (r *postgresRepository) GetLineByID(ctx context.Context, lineID uuid.UUID) (*model.CartLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM cart_lines
		WHERE id = $1
	`

	line, err := scanLine(r.pool.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}

	return line, nil
}

// GetPaidLine implements RepositoryInterface.GetPaidLine
func (r *postgresRepository) GetPaidLine(ctx context.Context, cartID uuid.UUID, productID uuid.UUID, variantID *uuid.UUID) (*model.CartLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM cart_lines
		WHERE cart_id = $1
		  AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3
		  AND free_coupon_code IS NULL
	`

	line, err := scanLine(r.pool.QueryRow(ctx, query, cartID, productID, variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get paid line: %w", err)
	}

	return line, nil
}

// InsertLine implements RepositoryInterface.InsertLine
func (r *postgresRepository) InsertLine(ctx context.Context, line *model.CartLine) error {
	query := `
		INSERT INTO cart_lines (
			id, cart_id, product_id, variant_id, quantity, price,
			free_coupon_code, free_rule_id, free_discount_percentage, free_unique_key,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`

	var couponCode *string
	var ruleID *uuid.UUID
	var discountPct *decimal.Decimal
	var uniqueKey *string
	if line.FreeTag != nil {
		couponCode = &line.FreeTag.CouponCode
		ruleID = &line.FreeTag.RuleID
		discountPct = &line.FreeTag.DiscountPercentage
		uniqueKey = &line.FreeTag.UniqueKey
	}

	_, err := r.pool.Exec(ctx, query,
		line.ID,
		line.CartID,
		line.ProductID,
		line.VariantID,
		line.Quantity,
		line.Price,
		couponCode,
		ruleID,
		discountPct,
		uniqueKey,
	)

	if err != nil {
		return fmt.Errorf("failed to insert cart line: %w", err)
	}

	return nil
}

// UpdateLineQuantity implements RepositoryInterface.UpdateLineQuantity
func (r *postgresRepository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_lines
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, lineID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update line quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLineNotFound
	}

	return nil
}

// DeleteLine implements RepositoryInterface.DeleteLine
func (r *postgresRepository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	query := `DELETE FROM cart_lines WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, lineID)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLineNotFound
	}

	return nil
}

// ClearLines implements RepositoryInterface.ClearLines
func (r *postgresRepository) ClearLines(ctx context.Context, cartID uuid.UUID) (int, error) {
	query := `DELETE FROM cart_lines WHERE cart_id = $1`

	tag, err := r.pool.Exec(ctx, query, cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart lines: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// DeleteExpiredCarts implements RepositoryInterface.DeleteExpiredCarts
func (r *postgresRepository) DeleteExpiredCarts(ctx context.Context) (int, error) {
	query := `DELETE FROM carts WHERE expires_at <= NOW()`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired carts: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
