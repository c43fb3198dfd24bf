package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }
func boolPtr(b bool) *bool           { return &b }

func TestCoupon_AutoApplyEnabled(t *testing.T) {
	// Unset means enabled
	assert.True(t, (&Coupon{}).AutoApplyEnabled())
	assert.True(t, (&Coupon{AutoApply: boolPtr(true)}).AutoApplyEnabled())
	assert.False(t, (&Coupon{AutoApply: boolPtr(false)}).AutoApplyEnabled())
}

func TestCoupon_IsValidNow(t *testing.T) {
	now := time.Now()

	active := Coupon{IsActive: true}
	assert.True(t, active.IsValidNow())

	inactive := Coupon{IsActive: false}
	assert.False(t, inactive.IsValidNow())

	notStarted := Coupon{IsActive: true, StartsAt: timePtr(now.Add(time.Hour))}
	assert.False(t, notStarted.IsValidNow())

	expired := Coupon{IsActive: true, ExpiresAt: timePtr(now.Add(-time.Hour))}
	assert.False(t, expired.IsValidNow())
	assert.True(t, expired.IsExpired())

	inWindow := Coupon{
		IsActive:  true,
		StartsAt:  timePtr(now.Add(-time.Hour)),
		ExpiresAt: timePtr(now.Add(time.Hour)),
	}
	assert.True(t, inWindow.IsValidNow())
	assert.False(t, inWindow.IsExpired())
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "getone", NormalizeCode("  GetOne  "))
	assert.Equal(t, "getone", NormalizeCode("getone"))

	coupon := Coupon{Code: " SUMMER10 "}
	coupon.NormalizeCode()
	assert.Equal(t, "summer10", coupon.Code)
}

func TestCoupon_IsBOGO(t *testing.T) {
	bogo := Coupon{DiscountType: string(DiscountTypeBuyXGetX)}
	assert.True(t, bogo.IsBOGO())

	other := Coupon{DiscountType: "percentage"}
	assert.False(t, other.IsBOGO())
}
