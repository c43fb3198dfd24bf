package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRule_EligibleFreeQuantity(t *testing.T) {
	cases := []struct {
		name    string
		buyQty  int
		getQty  int
		maxFree *int
		bought  int
		want    int
	}{
		{name: "below threshold", buyQty: 3, getQty: 1, bought: 2, want: 0},
		{name: "exactly at threshold", buyQty: 3, getQty: 1, bought: 3, want: 1},
		{name: "between multiples", buyQty: 3, getQty: 1, bought: 5, want: 1},
		{name: "two multiples", buyQty: 3, getQty: 1, bought: 6, want: 2},
		{name: "remainder is floored", buyQty: 3, getQty: 1, bought: 7, want: 2},
		{name: "get quantity scales", buyQty: 2, getQty: 3, bought: 4, want: 6},
		{name: "cap limits the grant", buyQty: 3, getQty: 1, maxFree: intPtr(1), bought: 9, want: 1},
		{name: "cap above eligibility is inert", buyQty: 3, getQty: 1, maxFree: intPtr(10), bought: 6, want: 2},
		{name: "zero bought", buyQty: 3, getQty: 1, bought: 0, want: 0},
		{name: "zero buy quantity grants nothing", buyQty: 0, getQty: 1, bought: 5, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := Rule{
				BuyQuantity:     tc.buyQty,
				GetQuantity:     tc.getQty,
				MaxFreeQuantity: tc.maxFree,
			}
			assert.Equal(t, tc.want, rule.EligibleFreeQuantity(tc.bought))
		})
	}
}

func TestRule_Qualifies(t *testing.T) {
	rule := Rule{BuyQuantity: 3, GetQuantity: 1, MaxFreeQuantity: intPtr(1)}

	assert.False(t, rule.Qualifies(2))
	assert.True(t, rule.Qualifies(3))

	// The cap never affects qualification
	assert.True(t, rule.Qualifies(30))

	broken := Rule{BuyQuantity: 0, GetQuantity: 1}
	assert.False(t, broken.Qualifies(10))
}

func TestRuleInput_Validate(t *testing.T) {
	valid := RuleInput{
		BuyProductRef:      uuid.New(),
		BuyQuantity:        3,
		GetProductRef:      uuid.New(),
		GetQuantity:        1,
		DiscountPercentage: decimal.NewFromInt(100),
	}
	assert.NoError(t, valid.Validate())

	missingBuyRef := valid
	missingBuyRef.BuyProductRef = uuid.Nil
	assert.Error(t, missingBuyRef.Validate())

	missingGetRef := valid
	missingGetRef.GetProductRef = uuid.Nil
	assert.Error(t, missingGetRef.Validate())

	zeroBuyQty := valid
	zeroBuyQty.BuyQuantity = 0
	assert.Error(t, zeroBuyQty.Validate())

	negativePct := valid
	negativePct.DiscountPercentage = decimal.NewFromInt(-1)
	assert.Error(t, negativePct.Validate())

	overPct := valid
	overPct.DiscountPercentage = decimal.NewFromInt(101)
	assert.Error(t, overPct.Validate())

	halfOff := valid
	halfOff.DiscountPercentage = decimal.NewFromInt(50)
	assert.NoError(t, halfOff.Validate())
}

func TestReplaceRulesRequest_Validate(t *testing.T) {
	empty := ReplaceRulesRequest{}
	assert.Error(t, empty.Validate())

	ok := ReplaceRulesRequest{Rules: []RuleInput{{
		BuyProductRef:      uuid.New(),
		BuyQuantity:        1,
		GetProductRef:      uuid.New(),
		GetQuantity:        1,
		DiscountPercentage: decimal.NewFromInt(100),
	}}}
	assert.NoError(t, ok.Validate())
}

func intPtr(n int) *int { return &n }
