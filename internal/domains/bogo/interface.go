package bogo

import (
	"context"

	cartmodel "bogo-backend/internal/domains/cart/model"
	couponmodel "bogo-backend/internal/domains/coupon/model"
	productmodel "bogo-backend/internal/domains/product/model"
	rulemodel "bogo-backend/internal/domains/rule/model"

	"github.com/google/uuid"
)

// Engine reconciles promotional free lines against the cart contents.
// Every transition recomputes eligibility and converges the cart onto
// it; running the same transition twice in a row changes nothing.
type Engine interface {
	// OnItemAdded runs after a paid line is added: auto-apply first,
	// then a reconcile pass over all applied coupons.
	OnItemAdded(ctx context.Context, cartID uuid.UUID) (*Result, error)

	// OnQuantityChanged runs after a paid line quantity changes. All
	// free lines are cleared and rebuilt from current eligibility.
	OnQuantityChanged(ctx context.Context, cartID uuid.UUID) (*Result, error)

	// OnItemRemoved runs after a paid line is removed. Same full
	// rebuild as OnQuantityChanged.
	OnItemRemoved(ctx context.Context, cartID uuid.UUID) (*Result, error)

	// OnCouponApplied validates the coupon, records it on the cart and
	// reconciles it. A coupon without rules is a configuration fault:
	// the call fails and the cart is left untouched.
	OnCouponApplied(ctx context.Context, cartID uuid.UUID, code string) (*Result, error)

	// OnCouponRemoved removes the code from the cart and deletes every
	// free line it granted, unconditionally.
	OnCouponRemoved(ctx context.Context, cartID uuid.UUID, code string) (*Result, error)

	// Validate is the drift pass run before display and checkout. Free
	// lines whose coupon, rule, product or buy threshold no longer
	// hold up are removed silently.
	Validate(ctx context.Context, cartID uuid.UUID) (*Result, error)
}

// CouponSource provides coupon lookups for the engine
type CouponSource interface {
	// FindByCode returns the coupon or coupon model.ErrCouponNotFound
	FindByCode(ctx context.Context, code string) (*couponmodel.Coupon, error)

	// ListActiveBOGO returns all currently valid buy-x-get-x coupons
	ListActiveBOGO(ctx context.Context) ([]couponmodel.Coupon, error)
}

// RuleSource provides the rules attached to a coupon, in authored order
type RuleSource interface {
	GetRules(ctx context.Context, couponID uuid.UUID) ([]rulemodel.Rule, error)
}

// ProductResolver resolves a product or variant reference. A missing
// reference resolves with Exists=false rather than an error.
type ProductResolver interface {
	Resolve(ctx context.Context, ref uuid.UUID) (*productmodel.Resolution, error)
}

// CartStore is the persistence surface the engine mutates through.
// Going through the repository directly keeps free-line writes from
// re-entering the service-level transition hooks.
type CartStore interface {
	GetCart(ctx context.Context, cartID uuid.UUID) (*cartmodel.Cart, error)
	ListLines(ctx context.Context, cartID uuid.UUID) ([]cartmodel.CartLine, error)
	InsertFreeLine(ctx context.Context, line *cartmodel.CartLine) error
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	SetAppliedCoupons(ctx context.Context, cartID uuid.UUID, codes []string) error
}

// Settings exposes the storewide promotion flags
type Settings interface {
	AutoAddEnabled() bool
	AutoApplyEnabled() bool
	FreeItemLabel() string
}

// Result reports what a transition did to the cart
type Result struct {
	Changed bool     `json:"changed"`
	Notices []Notice `json:"notices"`
}
