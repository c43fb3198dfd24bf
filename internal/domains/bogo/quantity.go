package bogo

import (
	cartmodel "bogo-backend/internal/domains/cart/model"

	"github.com/google/uuid"
)

// boughtQuantity sums the quantities of paid lines matching the buy
// reference. Aggregation is per rule: the same paid line counts for
// every rule whose buy reference it matches.
func boughtQuantity(lines []cartmodel.CartLine, ref uuid.UUID, policy matchPolicy) int {
	total := 0
	for i := range lines {
		if lineMatchesBuy(&lines[i], ref, policy) {
			total += lines[i].Quantity
		}
	}
	return total
}

// grantedQuantity sums the quantities of free lines this coupon has
// already granted for the get reference. Matching is exact: a free
// line counts only when it holds the referenced product or variant.
func grantedQuantity(lines []cartmodel.CartLine, code string, getRef uuid.UUID) int {
	total := 0
	for i := range lines {
		if lineGrantedBy(&lines[i], code, getRef) {
			total += lines[i].Quantity
		}
	}
	return total
}

// lineGrantedBy reports whether a free line was granted by the coupon
// for the given get reference
func lineGrantedBy(line *cartmodel.CartLine, code string, getRef uuid.UUID) bool {
	return line.IsFree() &&
		line.FreeTag.CouponCode == code &&
		line.EffectiveRef() == getRef
}
