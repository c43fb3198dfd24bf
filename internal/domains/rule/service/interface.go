package service

import (
	"context"

	"bogo-backend/internal/domains/rule/model"

	"github.com/google/uuid"
)

// ServiceInterface defines business logic methods for rules.
// GetRules doubles as the promotion engine's rule source.
type ServiceInterface interface {
	// GetRules returns the coupon's rules in authored order
	GetRules(ctx context.Context, couponID uuid.UUID) ([]model.Rule, error)

	// ReplaceRules validates and atomically swaps a coupon's rule set
	ReplaceRules(ctx context.Context, couponID uuid.UUID, req *model.ReplaceRulesRequest) ([]model.Rule, error)
}
