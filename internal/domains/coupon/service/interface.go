package service

import (
	"context"

	"bogo-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
)

// ServiceInterface defines business logic methods for coupons.
// FindByCode and ListActiveBOGO double as the promotion engine's
// coupon source.
type ServiceInterface interface {
	// FindByCode returns a coupon by normalized code or
	// model.ErrCouponNotFound
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)

	// ListActiveBOGO returns all currently valid buy-x-get-x coupons
	ListActiveBOGO(ctx context.Context) ([]model.Coupon, error)

	// GetCoupon returns a coupon by id
	GetCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// ListCoupons returns coupons for admin views
	ListCoupons(ctx context.Context, page, pageSize int) ([]model.Coupon, int, error)

	// CreateCoupon creates a buy-x-get-x coupon
	CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)

	// UpdateCoupon updates mutable coupon fields
	UpdateCoupon(ctx context.Context, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error)

	// DeleteCoupon removes a coupon and its rules
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}
