package model

import "errors"

var (
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrLineNotFound        = errors.New("cart line not found")
	ErrLineNotBelongToCart = errors.New("line does not belong to cart")
	ErrFreeLineImmutable   = errors.New("promotional free items cannot be edited directly")
)

// Error codes surfaced in API responses
const (
	ErrCodeCartNotFound      = "CART_NOT_FOUND"
	ErrCodeCartEmpty         = "EMPTY_CART"
	ErrCodeLineNotFound      = "LINE_NOT_FOUND"
	ErrCodeFreeLineImmutable = "FREE_LINE_IMMUTABLE"
	ErrCodeOutOfStock        = "OUT_OF_STOCK"
	ErrCodeCouponMisconfig   = "COUPON_MISCONFIG"
)
