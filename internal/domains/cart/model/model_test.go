package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCart_HasCoupon(t *testing.T) {
	cart := Cart{AppliedCoupons: []string{"summer", "getone"}}

	assert.True(t, cart.HasCoupon("getone"))
	assert.False(t, cart.HasCoupon("winter"))

	empty := Cart{}
	assert.False(t, empty.HasCoupon("getone"))
}

func TestCart_IsExpired(t *testing.T) {
	fresh := Cart{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, fresh.IsExpired())

	stale := Cart{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.True(t, stale.IsExpired())
}

func TestCartLine_EffectiveRef(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()

	plain := CartLine{ProductID: productID}
	assert.Equal(t, productID, plain.EffectiveRef())

	withVariant := CartLine{ProductID: productID, VariantID: &variantID}
	assert.Equal(t, variantID, withVariant.EffectiveRef())
}

func TestFreeLineTag_DiscountedPrice(t *testing.T) {
	price := decimal.NewFromInt(40)

	fullyFree := FreeLineTag{DiscountPercentage: decimal.NewFromInt(100)}
	assert.True(t, fullyFree.DiscountedPrice(price).IsZero())

	halfOff := FreeLineTag{DiscountPercentage: decimal.NewFromInt(50)}
	assert.True(t, halfOff.DiscountedPrice(price).Equal(decimal.NewFromInt(20)))

	noDiscount := FreeLineTag{DiscountPercentage: decimal.Zero}
	assert.True(t, noDiscount.DiscountedPrice(price).Equal(price))
}

func TestCartLine_IsFree(t *testing.T) {
	assert.False(t, (&CartLine{}).IsFree())
	assert.True(t, (&CartLine{FreeTag: &FreeLineTag{CouponCode: "getone"}}).IsFree())
}

func TestAddToCartRequest_Validate(t *testing.T) {
	valid := AddToCartRequest{ProductID: uuid.New(), Quantity: 2}
	assert.NoError(t, valid.Validate())

	noProduct := AddToCartRequest{Quantity: 1}
	assert.Error(t, noProduct.Validate())

	zeroQty := AddToCartRequest{ProductID: uuid.New()}
	assert.Error(t, zeroQty.Validate())

	tooMany := AddToCartRequest{ProductID: uuid.New(), Quantity: MaxItemsPerProduct + 1}
	assert.Error(t, tooMany.Validate())
}

func TestCheckoutRequest_Validate(t *testing.T) {
	assert.NoError(t, CheckoutRequest{PaymentMethod: "cod"}.Validate())
	assert.Error(t, CheckoutRequest{}.Validate())
	assert.Error(t, CheckoutRequest{PaymentMethod: "crypto"}.Validate())
}
