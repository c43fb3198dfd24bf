package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bogo-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const couponColumns = `id, code, description, discount_type, auto_apply, starts_at, expires_at, is_active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var coupon model.Coupon
	err := row.Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Description,
		&coupon.DiscountType,
		&coupon.AutoApply,
		&coupon.StartsAt,
		&coupon.ExpiresAt,
		&coupon.IsActive,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE id = $1
	`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return coupon, nil
}

// FindByCode implements RepositoryInterface.FindByCode
func (r *postgresRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE code = $1
	`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, model.NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to find coupon by code: %w", err)
	}

	return coupon, nil
}

// ListActiveBOGO implements RepositoryInterface.ListActiveBOGO
func (r *postgresRepository) ListActiveBOGO(ctx context.Context) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE discount_type = $1
		  AND is_active = TRUE
		  AND (starts_at IS NULL OR starts_at <= NOW())
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, string(model.DiscountTypeBuyXGetX))
	if err != nil {
		return nil, fmt.Errorf("failed to list active coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading coupons: %w", err)
	}

	return coupons, nil
}

// List implements RepositoryInterface.List
func (r *postgresRepository) List(ctx context.Context, page, pageSize int) ([]model.Coupon, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading coupons: %w", err)
	}

	return coupons, total, nil
}

// Create implements RepositoryInterface.Create
func (r *postgresRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, description, discount_type, auto_apply, starts_at, expires_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.Description,
		coupon.DiscountType,
		coupon.AutoApply,
		coupon.StartsAt,
		coupon.ExpiresAt,
		coupon.IsActive,
	)

	if err != nil {
		if isUniqueViolation(err, "coupons_code_key") {
			return model.ErrDuplicateCouponCode
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

// Update implements RepositoryInterface.Update
func (r *postgresRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `
		UPDATE coupons
		SET description = $2, auto_apply = $3, starts_at = $4, expires_at = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		coupon.ID,
		coupon.Description,
		coupon.AutoApply,
		coupon.StartsAt,
		coupon.ExpiresAt,
		coupon.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	return nil
}

// Delete implements RepositoryInterface.Delete. The coupon's rules go
// in the same transaction rather than relying on a cascading foreign key.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM coupon_rules WHERE coupon_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete coupon rules: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit coupon delete: %w", err)
	}

	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, constraint)
	}
	return false
}
