package bogo

import "errors"

var (
	// ErrCouponMisconfigured is returned when a buy-x-get-x coupon is
	// applied while carrying no rules. Applying it is refused outright.
	ErrCouponMisconfigured = errors.New("coupon has no buy-x-get-x rules configured")

	// ErrCouponAlreadyApplied is returned when the code is already on the cart
	ErrCouponAlreadyApplied = errors.New("coupon is already applied to this cart")

	// ErrCouponNotApplied is returned when removing a code the cart does not carry
	ErrCouponNotApplied = errors.New("coupon is not applied to this cart")

	// ErrRecursionLimit is returned when transitions nest deeper than
	// the hard cap. The nested pass aborts before mutating anything.
	ErrRecursionLimit = errors.New("promotion pass recursion limit exceeded")
)
