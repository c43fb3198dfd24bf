package bogo

import (
	cartmodel "bogo-backend/internal/domains/cart/model"
	couponmodel "bogo-backend/internal/domains/coupon/model"
	"bogo-backend/pkg/logger"
)

// autoApply applies every auto-apply coupon the cart qualifies for and
// removes the ones it no longer does. Qualification compares the
// bought quantity against the buy threshold without the free-quantity
// cap, so a fully capped-out rule still keeps its coupon applied.
func (p *pass) autoApply() error {
	if !p.e.settings.AutoApplyEnabled() {
		return nil
	}

	cart, err := p.e.carts.GetCart(p.ctx, p.cartID)
	if err != nil {
		return err
	}
	lines, err := p.e.carts.ListLines(p.ctx, p.cartID)
	if err != nil {
		return err
	}

	candidates, err := p.e.coupons.ListActiveBOGO(p.ctx)
	if err != nil {
		return err
	}

	applied := append([]string{}, cart.AppliedCoupons...)
	changed := false

	for i := range candidates {
		coupon := &candidates[i]
		if !coupon.AutoApplyEnabled() {
			continue
		}

		qualifies, err := p.cartQualifies(coupon, lines)
		if err != nil {
			return err
		}

		isApplied := containsCode(applied, coupon.Code)

		if qualifies && !isApplied {
			applied = append(applied, coupon.Code)
			changed = true
			p.add(successf("Coupon %q was applied to your cart automatically.", coupon.Code))
			logger.Info("auto-applied coupon", map[string]interface{}{
				"cart_id":     p.cartID.String(),
				"coupon_code": coupon.Code,
			})
		}

		if !qualifies && isApplied {
			applied = removeCode(applied, coupon.Code)
			changed = true
			p.add(noticef("Coupon %q was removed because your cart no longer qualifies.", coupon.Code))
			logger.Info("auto-removed coupon", map[string]interface{}{
				"cart_id":     p.cartID.String(),
				"coupon_code": coupon.Code,
			})
		}
	}

	if changed {
		if err := p.e.carts.SetAppliedCoupons(p.ctx, p.cartID, applied); err != nil {
			return err
		}
		p.changed = true
	}

	return nil
}

// cartQualifies reports whether any of the coupon's rules has its buy
// threshold met by the cart's paid lines
func (p *pass) cartQualifies(coupon *couponmodel.Coupon, lines []cartmodel.CartLine) (bool, error) {
	rules, err := p.e.rules.GetRules(p.ctx, coupon.ID)
	if err != nil {
		return false, err
	}

	for i := range rules {
		rule := &rules[i]
		policy, err := p.e.buyMatchPolicy(p.ctx, rule.BuyProductRef)
		if err != nil {
			return false, err
		}
		if rule.Qualifies(boughtQuantity(lines, rule.BuyProductRef, policy)) {
			return true, nil
		}
	}

	return false, nil
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func removeCode(codes []string, code string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c != code {
			out = append(out, c)
		}
	}
	return out
}
