package model

import "errors"

var (
	ErrRuleNotFound     = errors.New("rule not found")
	ErrCouponHasNoRules = errors.New("coupon has no rules configured")
)
