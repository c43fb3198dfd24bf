package repository

import (
	"context"

	"bogo-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
)

// RepositoryInterface defines data access methods for coupons
type RepositoryInterface interface {
	// GetByID retrieves a coupon by id
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// FindByCode retrieves a coupon by its normalized code
	// Returns model.ErrCouponNotFound when absent
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)

	// ListActiveBOGO returns all currently valid buy-x-get-x coupons
	ListActiveBOGO(ctx context.Context) ([]model.Coupon, error)

	// List returns coupons for admin views, newest first
	// Returns: coupons, total count, error
	List(ctx context.Context, page, pageSize int) ([]model.Coupon, int, error)

	// Create inserts a new coupon
	Create(ctx context.Context, coupon *model.Coupon) error

	// Update persists mutable coupon fields
	Update(ctx context.Context, coupon *model.Coupon) error

	// Delete removes a coupon and its rules (CASCADE)
	Delete(ctx context.Context, id uuid.UUID) error
}
