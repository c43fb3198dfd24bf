package bogo

import (
	"context"
	"fmt"

	cartmodel "bogo-backend/internal/domains/cart/model"

	"github.com/google/uuid"
)

// matchPolicy decides how a buy reference matches cart lines
type matchPolicy int

const (
	// matchNone: the reference resolves to nothing; the rule stays dormant
	matchNone matchPolicy = iota

	// matchExactVariant: the reference is a variant; only lines holding
	// exactly that variant count
	matchExactVariant

	// matchParent: the reference is a top-level product; lines holding
	// the product itself or any of its variants count
	matchParent
)

// buyMatchPolicy resolves the rule's buy reference into a match policy
func (e *engine) buyMatchPolicy(ctx context.Context, ref uuid.UUID) (matchPolicy, error) {
	res, err := e.products.Resolve(ctx, ref)
	if err != nil {
		return matchNone, fmt.Errorf("failed to resolve buy product %s: %w", ref, err)
	}
	if !res.Exists {
		return matchNone, nil
	}
	if res.IsVariant {
		return matchExactVariant, nil
	}
	return matchParent, nil
}

// lineMatchesBuy reports whether a paid line counts toward the buy
// side of a rule under the given policy. Free lines never count.
func lineMatchesBuy(line *cartmodel.CartLine, ref uuid.UUID, policy matchPolicy) bool {
	if line.IsFree() {
		return false
	}
	switch policy {
	case matchExactVariant:
		return line.VariantID != nil && *line.VariantID == ref
	case matchParent:
		// Lines store the parent in ProductID even when a variant is
		// selected, so one comparison covers both shapes.
		return line.ProductID == ref
	default:
		return false
	}
}
