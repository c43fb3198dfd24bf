package service

import (
	"context"
	"time"

	"bogo-backend/internal/domains/coupon/model"
	repo "bogo-backend/internal/domains/coupon/repository"
	"bogo-backend/pkg/logger"

	"github.com/google/uuid"
)

type CouponService struct {
	repository repo.RepositoryInterface
}

func NewCouponService(r repo.RepositoryInterface) ServiceInterface {
	return &CouponService{repository: r}
}

// FindByCode implements ServiceInterface.FindByCode
func (s *CouponService) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return s.repository.FindByCode(ctx, code)
}

// ListActiveBOGO implements ServiceInterface.ListActiveBOGO
func (s *CouponService) ListActiveBOGO(ctx context.Context) ([]model.Coupon, error) {
	return s.repository.ListActiveBOGO(ctx)
}

// GetCoupon implements ServiceInterface.GetCoupon
func (s *CouponService) GetCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	return s.repository.GetByID(ctx, id)
}

// ListCoupons implements ServiceInterface.ListCoupons
func (s *CouponService) ListCoupons(ctx context.Context, page, pageSize int) ([]model.Coupon, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repository.List(ctx, page, pageSize)
}

// CreateCoupon implements ServiceInterface.CreateCoupon
func (s *CouponService) CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	// Step 1: Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Build the coupon; active unless told otherwise
	now := time.Now()
	coupon := &model.Coupon{
		ID:           uuid.New(),
		Code:         req.Code,
		Description:  req.Description,
		DiscountType: string(model.DiscountTypeBuyXGetX),
		AutoApply:    req.AutoApply,
		StartsAt:     req.StartsAt,
		ExpiresAt:    req.ExpiresAt,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	coupon.NormalizeCode()

	// Step 3: Persist
	if err := s.repository.Create(ctx, coupon); err != nil {
		return nil, err
	}

	logger.Info("coupon created", map[string]interface{}{
		"coupon_id":   coupon.ID.String(),
		"coupon_code": coupon.Code,
	})

	return coupon, nil
}

// UpdateCoupon implements ServiceInterface.UpdateCoupon
func (s *CouponService) UpdateCoupon(ctx context.Context, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	// Step 1: Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Load and apply changes
	coupon, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		coupon.Description = req.Description
	}
	if req.AutoApply != nil {
		coupon.AutoApply = req.AutoApply
	}
	if req.StartsAt != nil {
		coupon.StartsAt = req.StartsAt
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	// Step 3: Persist
	if err := s.repository.Update(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

// DeleteCoupon implements ServiceInterface.DeleteCoupon
func (s *CouponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("coupon deleted", map[string]interface{}{
		"coupon_id": id.String(),
	})

	return nil
}
