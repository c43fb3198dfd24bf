package model

import "errors"

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponNotStarted    = errors.New("coupon is not yet active")
	ErrCouponNotBOGO       = errors.New("coupon does not carry buy-x-get-x rules")
	ErrDuplicateCouponCode = errors.New("coupon code already exists")
)

type ErrorCode string

const (
	ErrCodeCouponNotFound  ErrorCode = "COUPON_NOT_FOUND"  // 404
	ErrCodeCouponExpired   ErrorCode = "COUPON_EXPIRED"    // 400
	ErrCodeCouponInactive  ErrorCode = "COUPON_INACTIVE"   // 400
	ErrCodeCouponMisconfig ErrorCode = "COUPON_MISCONFIG"  // 422
	ErrCodeDuplicateCode   ErrorCode = "VAL_DUPLICATE_CODE" // 400

	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT"  // 400
	ErrCodeInternalError    ErrorCode = "SYS_INTERNAL_ERROR" // 500
)
