package bogo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	cartmodel "bogo-backend/internal/domains/cart/model"
	couponmodel "bogo-backend/internal/domains/coupon/model"
	rulemodel "bogo-backend/internal/domains/rule/model"
	"bogo-backend/pkg/logger"

	"github.com/google/uuid"
)

// maxPassDepth caps nested transition passes per cart. Depth 1 is a
// normal pass, depth 2 a pass triggered from within another pass.
const maxPassDepth = 2

type engine struct {
	coupons  CouponSource
	rules    RuleSource
	products ProductResolver
	carts    CartStore
	settings Settings

	mu     sync.Mutex
	depths map[uuid.UUID]int
}

// NewEngine creates the reconciliation engine
func NewEngine(
	coupons CouponSource,
	rules RuleSource,
	products ProductResolver,
	carts CartStore,
	settings Settings,
) Engine {
	return &engine{
		coupons:  coupons,
		rules:    rules,
		products: products,
		carts:    carts,
		settings: settings,
		depths:   make(map[uuid.UUID]int),
	}
}

// enter registers a pass for the cart and enforces the depth cap.
// The returned func must be deferred.
func (e *engine) enter(cartID uuid.UUID) (func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.depths[cartID] >= maxPassDepth {
		logger.Warn("promotion pass depth limit hit", map[string]interface{}{
			"cart_id": cartID.String(),
			"depth":   e.depths[cartID],
		})
		return nil, ErrRecursionLimit
	}
	e.depths[cartID]++

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.depths[cartID]--
		if e.depths[cartID] <= 0 {
			delete(e.depths, cartID)
		}
	}, nil
}

// pass carries the state of one transition over one cart
type pass struct {
	e      *engine
	ctx    context.Context
	cartID uuid.UUID

	changed bool
	notices []Notice
}

func (e *engine) newPass(ctx context.Context, cartID uuid.UUID) *pass {
	return &pass{e: e, ctx: ctx, cartID: cartID}
}

func (p *pass) result() *Result {
	return &Result{Changed: p.changed, Notices: p.notices}
}

func (p *pass) add(n Notice) {
	p.notices = append(p.notices, n)
}

// OnItemAdded implements Engine
func (e *engine) OnItemAdded(ctx context.Context, cartID uuid.UUID) (*Result, error) {
	done, err := e.enter(cartID)
	if err != nil {
		return nil, err
	}
	defer done()

	p := e.newPass(ctx, cartID)

	// Step 1: Auto-apply qualifying coupons before reconciling
	if err := p.autoApply(); err != nil {
		return nil, err
	}

	// Step 2: Reconcile every applied coupon against the new contents
	if err := p.reconcileAll(); err != nil {
		return nil, err
	}

	return p.result(), nil
}

// OnQuantityChanged implements Engine
func (e *engine) OnQuantityChanged(ctx context.Context, cartID uuid.UUID) (*Result, error) {
	return e.rebuild(ctx, cartID)
}

// OnItemRemoved implements Engine
func (e *engine) OnItemRemoved(ctx context.Context, cartID uuid.UUID) (*Result, error) {
	return e.rebuild(ctx, cartID)
}

// rebuild clears every free line and regrants from current
// eligibility. Paid-line shrinkage can strand grants across several
// coupons at once; rebuilding is how the cart converges.
func (e *engine) rebuild(ctx context.Context, cartID uuid.UUID) (*Result, error) {
	done, err := e.enter(cartID)
	if err != nil {
		return nil, err
	}
	defer done()

	p := e.newPass(ctx, cartID)

	// Step 1: Drop all free lines
	if err := p.clearFreeLines(); err != nil {
		return nil, err
	}

	// Step 2: Re-evaluate auto-applied coupons
	if err := p.autoApply(); err != nil {
		return nil, err
	}

	// Step 3: Regrant from scratch
	if err := p.reconcileAll(); err != nil {
		return nil, err
	}

	return p.result(), nil
}

// OnCouponApplied implements Engine
func (e *engine) OnCouponApplied(ctx context.Context, cartID uuid.UUID, code string) (*Result, error) {
	done, err := e.enter(cartID)
	if err != nil {
		return nil, err
	}
	defer done()

	code = couponmodel.NormalizeCode(code)

	coupon, err := e.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !coupon.IsValidNow() {
		if coupon.IsExpired() {
			return nil, couponmodel.ErrCouponExpired
		}
		return nil, couponmodel.ErrCouponInactive
	}
	if !coupon.IsBOGO() {
		return nil, couponmodel.ErrCouponNotBOGO
	}

	rules, err := e.rules.GetRules(ctx, coupon.ID)
	if err != nil {
		return nil, err
	}
	// A rule-less coupon is a store configuration fault. Refuse the
	// application entirely so the cart does not carry a dead code.
	if len(rules) == 0 {
		logger.Warn("coupon applied without rules", map[string]interface{}{
			"coupon_code": code,
			"coupon_id":   coupon.ID.String(),
		})
		return nil, ErrCouponMisconfigured
	}

	cart, err := e.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.HasCoupon(code) {
		return nil, ErrCouponAlreadyApplied
	}

	p := e.newPass(ctx, cartID)

	applied := append(append([]string{}, cart.AppliedCoupons...), code)
	if err := e.carts.SetAppliedCoupons(ctx, cartID, applied); err != nil {
		return nil, fmt.Errorf("failed to record applied coupon: %w", err)
	}
	p.changed = true
	p.add(successf("Coupon %q applied.", code))

	if err := p.reconcileCoupon(coupon, rules); err != nil {
		return nil, err
	}

	return p.result(), nil
}

// OnCouponRemoved implements Engine
func (e *engine) OnCouponRemoved(ctx context.Context, cartID uuid.UUID, code string) (*Result, error) {
	done, err := e.enter(cartID)
	if err != nil {
		return nil, err
	}
	defer done()

	code = couponmodel.NormalizeCode(code)

	cart, err := e.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.HasCoupon(code) {
		return nil, ErrCouponNotApplied
	}

	p := e.newPass(ctx, cartID)

	remaining := make([]string, 0, len(cart.AppliedCoupons))
	for _, applied := range cart.AppliedCoupons {
		if applied != code {
			remaining = append(remaining, applied)
		}
	}
	if err := e.carts.SetAppliedCoupons(ctx, cartID, remaining); err != nil {
		return nil, fmt.Errorf("failed to remove applied coupon: %w", err)
	}
	p.changed = true

	// Every free line the coupon granted goes with it, regardless of
	// what the paid lines currently look like.
	lines, err := e.carts.ListLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		line := &lines[i]
		if line.IsFree() && line.FreeTag.CouponCode == code {
			if err := e.carts.DeleteLine(ctx, line.ID); err != nil {
				return nil, fmt.Errorf("failed to delete free line %s: %w", line.ID, err)
			}
		}
	}
	p.add(noticef("Coupon %q removed.", code))

	return p.result(), nil
}

// Validate implements Engine
func (e *engine) Validate(ctx context.Context, cartID uuid.UUID) (*Result, error) {
	done, err := e.enter(cartID)
	if err != nil {
		return nil, err
	}
	defer done()

	p := e.newPass(ctx, cartID)

	cart, err := e.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	lines, err := e.carts.ListLines(ctx, cartID)
	if err != nil {
		return nil, err
	}

	// Coupons and rules already checked in this pass
	validCoupons := make(map[string]bool)
	couponRules := make(map[uuid.UUID]*rulemodel.Rule)

	for i := range lines {
		line := &lines[i]
		if !line.IsFree() {
			continue
		}
		if !p.freeLineStillValid(cart, lines, line, validCoupons, couponRules) {
			if err := e.carts.DeleteLine(ctx, line.ID); err != nil {
				return nil, fmt.Errorf("failed to delete stale free line %s: %w", line.ID, err)
			}
			p.changed = true
			logger.Info("removed stale free line", map[string]interface{}{
				"cart_id":     cartID.String(),
				"line_id":     line.ID.String(),
				"coupon_code": line.FreeTag.CouponCode,
			})
		}
	}

	return p.result(), nil
}

// freeLineStillValid checks whether a free line's coupon, rule and
// product still hold up, and whether the paid lines still meet the
// rule's buy threshold. The maps memoize lookups within the pass.
func (p *pass) freeLineStillValid(
	cart *cartmodel.Cart,
	lines []cartmodel.CartLine,
	line *cartmodel.CartLine,
	validCoupons map[string]bool,
	couponRules map[uuid.UUID]*rulemodel.Rule,
) bool {
	tag := line.FreeTag

	if !cart.HasCoupon(tag.CouponCode) {
		return false
	}

	if ok, seen := validCoupons[tag.CouponCode]; seen {
		if !ok {
			return false
		}
	} else {
		coupon, err := p.e.coupons.FindByCode(p.ctx, tag.CouponCode)
		ok := err == nil && coupon.IsValidNow() && coupon.IsBOGO()
		validCoupons[tag.CouponCode] = ok
		if ok {
			rules, err := p.e.rules.GetRules(p.ctx, coupon.ID)
			if err == nil {
				for i := range rules {
					rule := rules[i]
					couponRules[rule.ID] = &rule
				}
			}
		}
		if !ok {
			return false
		}
	}

	rule, ok := couponRules[tag.RuleID]
	if !ok {
		return false
	}

	res, err := p.e.products.Resolve(p.ctx, line.EffectiveRef())
	if err != nil || !res.Exists {
		return false
	}

	// The paid lines must still meet the rule's buy threshold; a grant
	// can go stale without any cart transition firing.
	policy, err := p.e.buyMatchPolicy(p.ctx, rule.BuyProductRef)
	if err != nil || policy == matchNone {
		return false
	}
	return rule.Qualifies(boughtQuantity(lines, rule.BuyProductRef, policy))
}

// clearFreeLines deletes every free line on the cart
func (p *pass) clearFreeLines() error {
	lines, err := p.e.carts.ListLines(p.ctx, p.cartID)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].IsFree() {
			if err := p.e.carts.DeleteLine(p.ctx, lines[i].ID); err != nil {
				return fmt.Errorf("failed to clear free line %s: %w", lines[i].ID, err)
			}
			p.changed = true
		}
	}
	return nil
}

// reconcileAll runs the per-rule reconciliation for every applied
// coupon, in application order.
func (p *pass) reconcileAll() error {
	cart, err := p.e.carts.GetCart(p.ctx, p.cartID)
	if err != nil {
		return err
	}

	for _, code := range cart.AppliedCoupons {
		coupon, err := p.e.coupons.FindByCode(p.ctx, code)
		if err != nil {
			if errors.Is(err, couponmodel.ErrCouponNotFound) {
				p.add(errorf("Coupon %q no longer exists.", code))
				continue
			}
			return err
		}
		if !coupon.IsValidNow() || !coupon.IsBOGO() {
			continue
		}

		rules, err := p.e.rules.GetRules(p.ctx, coupon.ID)
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			p.add(errorf("Coupon %q has no offers configured. Please contact support.", code))
			continue
		}

		if err := p.reconcileCoupon(coupon, rules); err != nil {
			return err
		}
	}

	return nil
}

// reconcileCoupon converges the cart's free lines for one coupon onto
// current eligibility, one rule at a time.
func (p *pass) reconcileCoupon(coupon *couponmodel.Coupon, rules []rulemodel.Rule) error {
	anyEligible := false

	for i := range rules {
		eligible, err := p.reconcileRule(coupon.Code, &rules[i])
		if err != nil {
			return err
		}
		if eligible {
			anyEligible = true
		}
	}

	if !anyEligible {
		p.add(noticef("Coupon %q is applied, but your cart has no products eligible for a free item.", coupon.Code))
	}

	return nil
}

// reconcileRule computes the free-quantity delta for one rule and
// applies it. Returns whether the rule is eligible at all.
func (p *pass) reconcileRule(code string, rule *rulemodel.Rule) (bool, error) {
	policy, err := p.e.buyMatchPolicy(p.ctx, rule.BuyProductRef)
	if err != nil {
		return false, err
	}

	// Lines are refetched per rule so each rule aggregates against the
	// cart as the previous rule left it.
	lines, err := p.e.carts.ListLines(p.ctx, p.cartID)
	if err != nil {
		return false, err
	}

	bought := boughtQuantity(lines, rule.BuyProductRef, policy)
	eligible := rule.EligibleFreeQuantity(bought)
	granted := grantedQuantity(lines, code, rule.GetProductRef)
	delta := eligible - granted

	switch {
	case delta > 0:
		if err := p.grow(code, rule, lines, delta); err != nil {
			return false, err
		}
	case delta < 0:
		if err := p.shrink(code, rule.GetProductRef, lines, -delta); err != nil {
			return false, err
		}
	}

	return eligible > 0, nil
}

// grow adds delta units of the rule's free product to the cart
func (p *pass) grow(code string, rule *rulemodel.Rule, lines []cartmodel.CartLine, delta int) error {
	res, err := p.e.products.Resolve(p.ctx, rule.GetProductRef)
	if err != nil {
		return fmt.Errorf("failed to resolve free product %s: %w", rule.GetProductRef, err)
	}
	if !res.Exists {
		p.add(errorf("The free product for coupon %q is no longer available.", code))
		return nil
	}
	if !res.InStock {
		p.add(errorf("The free product %q is out of stock and could not be added.", res.DisplayName))
		return nil
	}

	if !p.e.settings.AutoAddEnabled() {
		p.add(noticef("You are eligible for a free %q with coupon %q. Add it to your cart to claim it.", res.DisplayName, code))
		return nil
	}

	// Top up an existing grant line before creating a new one
	for i := range lines {
		if lineGrantedBy(&lines[i], code, rule.GetProductRef) {
			if err := p.e.carts.UpdateLineQuantity(p.ctx, lines[i].ID, lines[i].Quantity+delta); err != nil {
				return fmt.Errorf("failed to grow free line %s: %w", lines[i].ID, err)
			}
			p.changed = true
			return nil
		}
	}

	line := &cartmodel.CartLine{
		ID:       uuid.New(),
		CartID:   p.cartID,
		Quantity: delta,
		Price:    res.Price,
		FreeTag: &cartmodel.FreeLineTag{
			CouponCode:         code,
			RuleID:             rule.ID,
			DiscountPercentage: rule.DiscountPercentage,
			UniqueKey:          fmt.Sprintf("%s_%s", code, rule.ID),
		},
	}
	if res.IsVariant && res.ParentID != nil {
		line.ProductID = *res.ParentID
		variantID := rule.GetProductRef
		line.VariantID = &variantID
	} else {
		line.ProductID = rule.GetProductRef
	}

	if err := p.e.carts.InsertFreeLine(p.ctx, line); err != nil {
		return fmt.Errorf("failed to insert free line: %w", err)
	}
	p.changed = true
	p.add(successf("A free %q was added to your cart.", res.DisplayName))

	return nil
}

// shrink removes delta units of granted free product, deleting lines
// that reach zero
func (p *pass) shrink(code string, getRef uuid.UUID, lines []cartmodel.CartLine, delta int) error {
	for i := range lines {
		if delta <= 0 {
			return nil
		}
		line := &lines[i]
		if !lineGrantedBy(line, code, getRef) {
			continue
		}
		if line.Quantity > delta {
			if err := p.e.carts.UpdateLineQuantity(p.ctx, line.ID, line.Quantity-delta); err != nil {
				return fmt.Errorf("failed to shrink free line %s: %w", line.ID, err)
			}
			delta = 0
		} else {
			if err := p.e.carts.DeleteLine(p.ctx, line.ID); err != nil {
				return fmt.Errorf("failed to delete free line %s: %w", line.ID, err)
			}
			delta -= line.Quantity
		}
		p.changed = true
	}
	return nil
}
