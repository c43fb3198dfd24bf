package service

import (
	"context"
	"fmt"
	"time"

	couponService "bogo-backend/internal/domains/coupon/service"
	"bogo-backend/internal/domains/rule/model"
	repo "bogo-backend/internal/domains/rule/repository"
	"bogo-backend/pkg/logger"

	"github.com/google/uuid"
)

type RuleService struct {
	repository repo.RepositoryInterface
	coupons    couponService.ServiceInterface
}

func NewRuleService(r repo.RepositoryInterface, coupons couponService.ServiceInterface) ServiceInterface {
	return &RuleService{
		repository: r,
		coupons:    coupons,
	}
}

// GetRules implements ServiceInterface.GetRules
func (s *RuleService) GetRules(ctx context.Context, couponID uuid.UUID) ([]model.Rule, error) {
	return s.repository.GetRules(ctx, couponID)
}

// ReplaceRules implements ServiceInterface.ReplaceRules
func (s *RuleService) ReplaceRules(ctx context.Context, couponID uuid.UUID, req *model.ReplaceRulesRequest) ([]model.Rule, error) {
	// Step 1: Validate the request and every rule row
	if err := req.Validate(); err != nil {
		return nil, err
	}
	for i, input := range req.Rules {
		if err := input.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}

	// Step 2: The coupon must exist before it can carry rules
	if _, err := s.coupons.GetCoupon(ctx, couponID); err != nil {
		return nil, err
	}

	// Step 3: Build and swap the rule set atomically
	now := time.Now()
	rules := make([]model.Rule, 0, len(req.Rules))
	for i, input := range req.Rules {
		rules = append(rules, model.Rule{
			ID:                 uuid.New(),
			CouponID:           couponID,
			BuyProductRef:      input.BuyProductRef,
			BuyQuantity:        input.BuyQuantity,
			GetProductRef:      input.GetProductRef,
			GetQuantity:        input.GetQuantity,
			DiscountPercentage: input.DiscountPercentage,
			MaxFreeQuantity:    input.MaxFreeQuantity,
			Position:           i,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}

	if err := s.repository.ReplaceRules(ctx, couponID, rules); err != nil {
		return nil, err
	}

	logger.Info("coupon rules replaced", map[string]interface{}{
		"coupon_id":  couponID.String(),
		"rule_count": len(rules),
	})

	return rules, nil
}
