package repository

import (
	"context"

	"bogo-backend/internal/domains/rule/model"

	"github.com/google/uuid"
)

// RepositoryInterface defines data access methods for rules
type RepositoryInterface interface {
	// GetRules returns the coupon's rules in authored order
	GetRules(ctx context.Context, couponID uuid.UUID) ([]model.Rule, error)

	// GetByID retrieves a single rule
	GetByID(ctx context.Context, id uuid.UUID) (*model.Rule, error)

	// ReplaceRules atomically swaps the coupon's rule set for the
	// given one. Positions follow slice order.
	ReplaceRules(ctx context.Context, couponID uuid.UUID, rules []model.Rule) error
}
