package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiscountType represents valid coupon discount types
type DiscountType string

const (
	DiscountTypeBuyXGetX DiscountType = "buy_x_get_x"
)

func (dt DiscountType) IsValid() bool {
	return dt == DiscountTypeBuyXGetX
}

func (dt DiscountType) String() string {
	return string(dt)
}

// Coupon represents a promotional coupon carrying buy-x-get-x rules
type Coupon struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Description *string   `json:"description" db:"description"`

	DiscountType string `json:"discount_type" db:"discount_type"`

	// AutoApply nil means enabled; admins can opt a coupon out explicitly
	AutoApply *bool `json:"auto_apply" db:"auto_apply"`

	// Validity
	StartsAt  *time.Time `json:"starts_at" db:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at" db:"expires_at"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsBOGO reports whether the coupon participates in the buy-x-get-x flow
func (c *Coupon) IsBOGO() bool {
	return c.DiscountType == string(DiscountTypeBuyXGetX)
}

// AutoApplyEnabled returns the per-coupon auto-apply flag, defaulting to true
func (c *Coupon) AutoApplyEnabled() bool {
	if c.AutoApply == nil {
		return true
	}
	return *c.AutoApply
}

// IsValidNow checks if the coupon is currently usable
func (c *Coupon) IsValidNow() bool {
	if !c.IsActive {
		return false
	}
	now := time.Now()
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}

// IsExpired checks if the coupon has expired
func (c *Coupon) IsExpired() bool {
	return c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt)
}

// NormalizeCode normalizes the coupon code for storage and lookup
func (c *Coupon) NormalizeCode() {
	c.Code = strings.ToLower(strings.TrimSpace(c.Code))
}

// NormalizeCode normalizes a raw coupon code the same way stored codes are
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
