package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleInput - one rule row as authored by an admin
type RuleInput struct {
	BuyProductRef      uuid.UUID       `json:"buy_product_ref"`
	BuyQuantity        int             `json:"buy_quantity"`
	GetProductRef      uuid.UUID       `json:"get_product_ref"`
	GetQuantity        int             `json:"get_quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	MaxFreeQuantity    *int            `json:"max_free_quantity"`
}

// Validate validates RuleInput
func (r RuleInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BuyProductRef,
			validation.By(requiredRef("buy_product_ref")),
		),
		validation.Field(&r.BuyQuantity,
			validation.Required.Error("buy_quantity must be >= 1"),
			validation.Min(1).Error("buy_quantity must be >= 1"),
		),
		validation.Field(&r.GetProductRef,
			validation.By(requiredRef("get_product_ref")),
		),
		validation.Field(&r.GetQuantity,
			validation.Required.Error("get_quantity must be >= 1"),
			validation.Min(1).Error("get_quantity must be >= 1"),
		),
		validation.Field(&r.DiscountPercentage,
			validation.By(validateDiscountPercentage),
		),
		validation.Field(&r.MaxFreeQuantity,
			validation.Min(1).Error("max_free_quantity must be >= 1"),
		),
	)
}

// requiredRef rejects the zero UUID, which ozzo's Required lets through
// for array-backed types
func requiredRef(field string) validation.RuleFunc {
	return func(value interface{}) error {
		ref, ok := value.(uuid.UUID)
		if !ok || ref == uuid.Nil {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// validateDiscountPercentage keeps the percentage inside [0, 100]
func validateDiscountPercentage(value interface{}) error {
	pct, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("discount_percentage must be a decimal")
	}
	if pct.LessThan(decimal.Zero) || pct.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("discount_percentage must be between 0 and 100")
	}
	return nil
}

// ReplaceRulesRequest - admin request to replace a coupon's rule set
type ReplaceRulesRequest struct {
	Rules []RuleInput `json:"rules"`
}

// Validate validates ReplaceRulesRequest
func (r ReplaceRulesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rules,
			validation.Required.Error("rules must not be empty"),
			validation.Length(1, 100).Error("a coupon can carry 1-100 rules"),
		),
	)
}

// RuleResponse represents a rule in API responses
type RuleResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CouponID           uuid.UUID       `json:"coupon_id"`
	BuyProductRef      uuid.UUID       `json:"buy_product_ref"`
	BuyQuantity        int             `json:"buy_quantity"`
	GetProductRef      uuid.UUID       `json:"get_product_ref"`
	GetQuantity        int             `json:"get_quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	MaxFreeQuantity    *int            `json:"max_free_quantity,omitempty"`
	Position           int             `json:"position"`
}

// ToResponse converts Rule to RuleResponse
func (r *Rule) ToResponse() *RuleResponse {
	return &RuleResponse{
		ID:                 r.ID,
		CouponID:           r.CouponID,
		BuyProductRef:      r.BuyProductRef,
		BuyQuantity:        r.BuyQuantity,
		GetProductRef:      r.GetProductRef,
		GetQuantity:        r.GetQuantity,
		DiscountPercentage: r.DiscountPercentage,
		MaxFreeQuantity:    r.MaxFreeQuantity,
		Position:           r.Position,
	}
}
