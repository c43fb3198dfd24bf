package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateCouponRequest - admin request to create a coupon
type CreateCouponRequest struct {
	Code        string     `json:"code"`
	Description *string    `json:"description"`
	AutoApply   *bool      `json:"auto_apply"`
	StartsAt    *time.Time `json:"starts_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsActive    *bool      `json:"is_active"`
}

// Validate validates CreateCouponRequest
func (r CreateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("coupon code is required"),
			validation.Length(2, 50).Error("coupon code must be 2-50 characters"),
		),
		validation.Field(&r.Description,
			validation.Length(0, 1000).Error("description must be at most 1000 characters"),
		),
	)
}

// UpdateCouponRequest - admin request to update a coupon
type UpdateCouponRequest struct {
	Description *string    `json:"description"`
	AutoApply   *bool      `json:"auto_apply"`
	StartsAt    *time.Time `json:"starts_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsActive    *bool      `json:"is_active"`
}

// Validate validates UpdateCouponRequest
func (r UpdateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description,
			validation.Length(0, 1000).Error("description must be at most 1000 characters"),
		),
	)
}

// ApplyCouponRequest - storefront request to apply a coupon to the cart
type ApplyCouponRequest struct {
	Code string `json:"code"`
}

// Validate validates ApplyCouponRequest
func (r ApplyCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("coupon code is required"),
			validation.Length(1, 50).Error("coupon code must be 1-50 characters"),
		),
	)
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Description *string    `json:"description,omitempty"`
	AutoApply   bool       `json:"auto_apply"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsValid     bool       `json:"is_valid"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToResponse converts Coupon to CouponResponse
func (c *Coupon) ToResponse() *CouponResponse {
	return &CouponResponse{
		ID:          c.ID,
		Code:        c.Code,
		Description: c.Description,
		AutoApply:   c.AutoApplyEnabled(),
		StartsAt:    c.StartsAt,
		ExpiresAt:   c.ExpiresAt,
		IsActive:    c.IsActive,
		IsValid:     c.IsValidNow(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
