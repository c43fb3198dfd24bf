package bogo

import (
	"context"
	"testing"
	"time"

	cartmodel "bogo-backend/internal/domains/cart/model"
	couponmodel "bogo-backend/internal/domains/coupon/model"
	productmodel "bogo-backend/internal/domains/product/model"
	rulemodel "bogo-backend/internal/domains/rule/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------

type fakeCoupons struct {
	byCode map[string]*couponmodel.Coupon
}

func (f *fakeCoupons) FindByCode(_ context.Context, code string) (*couponmodel.Coupon, error) {
	coupon, ok := f.byCode[couponmodel.NormalizeCode(code)]
	if !ok {
		return nil, couponmodel.ErrCouponNotFound
	}
	return coupon, nil
}

func (f *fakeCoupons) ListActiveBOGO(_ context.Context) ([]couponmodel.Coupon, error) {
	var out []couponmodel.Coupon
	for _, coupon := range f.byCode {
		if coupon.IsValidNow() && coupon.IsBOGO() {
			out = append(out, *coupon)
		}
	}
	return out, nil
}

type fakeRules struct {
	byCoupon map[uuid.UUID][]rulemodel.Rule
}

func (f *fakeRules) GetRules(_ context.Context, couponID uuid.UUID) ([]rulemodel.Rule, error) {
	return f.byCoupon[couponID], nil
}

type fakeProducts struct {
	byRef map[uuid.UUID]*productmodel.Resolution
}

func (f *fakeProducts) Resolve(_ context.Context, ref uuid.UUID) (*productmodel.Resolution, error) {
	if res, ok := f.byRef[ref]; ok {
		copied := *res
		return &copied, nil
	}
	return &productmodel.Resolution{Ref: ref, Exists: false}, nil
}

type fakeStore struct {
	cart  *cartmodel.Cart
	lines []*cartmodel.CartLine

	// onInsert, when set, runs before a free line is stored. Used to
	// simulate a store that re-enters the engine.
	onInsert func(line *cartmodel.CartLine) error
}

func (f *fakeStore) GetCart(_ context.Context, cartID uuid.UUID) (*cartmodel.Cart, error) {
	if f.cart == nil || f.cart.ID != cartID {
		return nil, cartmodel.ErrCartNotFound
	}
	copied := *f.cart
	copied.AppliedCoupons = append([]string{}, f.cart.AppliedCoupons...)
	return &copied, nil
}

func (f *fakeStore) ListLines(_ context.Context, cartID uuid.UUID) ([]cartmodel.CartLine, error) {
	var out []cartmodel.CartLine
	for _, line := range f.lines {
		if line.CartID == cartID {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertFreeLine(_ context.Context, line *cartmodel.CartLine) error {
	if f.onInsert != nil {
		if err := f.onInsert(line); err != nil {
			return err
		}
	}
	copied := *line
	f.lines = append(f.lines, &copied)
	return nil
}

func (f *fakeStore) UpdateLineQuantity(_ context.Context, lineID uuid.UUID, quantity int) error {
	for _, line := range f.lines {
		if line.ID == lineID {
			line.Quantity = quantity
			return nil
		}
	}
	return cartmodel.ErrLineNotFound
}

func (f *fakeStore) DeleteLine(_ context.Context, lineID uuid.UUID) error {
	for i, line := range f.lines {
		if line.ID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return cartmodel.ErrLineNotFound
}

func (f *fakeStore) SetAppliedCoupons(_ context.Context, cartID uuid.UUID, codes []string) error {
	if f.cart == nil || f.cart.ID != cartID {
		return cartmodel.ErrCartNotFound
	}
	f.cart.AppliedCoupons = append([]string{}, codes...)
	return nil
}

func (f *fakeStore) freeLines() []*cartmodel.CartLine {
	var out []*cartmodel.CartLine
	for _, line := range f.lines {
		if line.IsFree() {
			out = append(out, line)
		}
	}
	return out
}

func (f *fakeStore) paidLine(ref uuid.UUID) *cartmodel.CartLine {
	for _, line := range f.lines {
		if !line.IsFree() && line.EffectiveRef() == ref {
			return line
		}
	}
	return nil
}

// ---------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------

type fixture struct {
	engine   Engine
	store    *fakeStore
	coupons  *fakeCoupons
	rules    *fakeRules
	products *fakeProducts
	cartID   uuid.UUID

	mainProduct uuid.UUID
	giftProduct uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cartID := uuid.New()
	mainProduct := uuid.New()
	giftProduct := uuid.New()

	f := &fixture{
		store: &fakeStore{
			cart: &cartmodel.Cart{
				ID:             cartID,
				AppliedCoupons: []string{},
				ExpiresAt:      time.Now().Add(time.Hour),
			},
		},
		coupons:     &fakeCoupons{byCode: map[string]*couponmodel.Coupon{}},
		rules:       &fakeRules{byCoupon: map[uuid.UUID][]rulemodel.Rule{}},
		products:    &fakeProducts{byRef: map[uuid.UUID]*productmodel.Resolution{}},
		cartID:      cartID,
		mainProduct: mainProduct,
		giftProduct: giftProduct,
	}

	f.products.byRef[mainProduct] = &productmodel.Resolution{
		Ref: mainProduct, Exists: true, InStock: true,
		Price: decimal.NewFromInt(20), DisplayName: "Espresso Beans",
	}
	f.products.byRef[giftProduct] = &productmodel.Resolution{
		Ref: giftProduct, Exists: true, InStock: true,
		Price: decimal.NewFromInt(8), DisplayName: "Travel Mug",
	}

	f.engine = NewEngine(f.coupons, f.rules, f.products, f.store, NewStaticSettings(true, true, "Free gift"))
	return f
}

func (f *fixture) withSettings(autoAdd, autoApply bool) {
	f.engine = NewEngine(f.coupons, f.rules, f.products, f.store, NewStaticSettings(autoAdd, autoApply, "Free gift"))
}

func (f *fixture) addCoupon(code string, autoApply *bool, rules ...rulemodel.Rule) *couponmodel.Coupon {
	coupon := &couponmodel.Coupon{
		ID:           uuid.New(),
		Code:         code,
		DiscountType: string(couponmodel.DiscountTypeBuyXGetX),
		AutoApply:    autoApply,
		IsActive:     true,
	}
	f.coupons.byCode[code] = coupon
	for i := range rules {
		rules[i].CouponID = coupon.ID
		if rules[i].ID == uuid.Nil {
			rules[i].ID = uuid.New()
		}
	}
	f.rules.byCoupon[coupon.ID] = rules
	return coupon
}

func (f *fixture) addPaidLine(ref uuid.UUID, quantity int) *cartmodel.CartLine {
	line := &cartmodel.CartLine{
		ID:        uuid.New(),
		CartID:    f.cartID,
		ProductID: ref,
		Quantity:  quantity,
		Price:     decimal.NewFromInt(20),
	}
	f.store.lines = append(f.store.lines, line)
	return line
}

func buyRule(buyRef uuid.UUID, buyQty int, getRef uuid.UUID, getQty int) rulemodel.Rule {
	return rulemodel.Rule{
		BuyProductRef:      buyRef,
		BuyQuantity:        buyQty,
		GetProductRef:      getRef,
		GetQuantity:        getQty,
		DiscountPercentage: decimal.NewFromInt(100),
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

// ---------------------------------------------------------------------
// Coupon application
// ---------------------------------------------------------------------

func TestApplyCoupon_GrantsFreeItem(t *testing.T) {
	f := newFixture(t)
	rule := buyRule(f.mainProduct, 3, f.giftProduct, 1)
	f.addCoupon("getone", boolPtr(false), rule)
	f.addPaidLine(f.mainProduct, 3)

	result, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "GETONE")
	require.NoError(t, err)
	assert.True(t, result.Changed)

	require.Equal(t, []string{"getone"}, f.store.cart.AppliedCoupons)

	free := f.store.freeLines()
	require.Len(t, free, 1)
	assert.Equal(t, f.giftProduct, free[0].ProductID)
	assert.Equal(t, 1, free[0].Quantity)
	assert.Equal(t, "getone", free[0].FreeTag.CouponCode)
	assert.NotEqual(t, uuid.Nil, free[0].FreeTag.RuleID)
	assert.True(t, free[0].FreeTag.DiscountPercentage.Equal(decimal.NewFromInt(100)))
	assert.NotEmpty(t, free[0].FreeTag.UniqueKey)
}

func TestApplyCoupon_WithoutRules_IsRefused(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("broken", boolPtr(false))
	f.addPaidLine(f.mainProduct, 5)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "broken")
	require.ErrorIs(t, err, ErrCouponMisconfigured)

	assert.Empty(t, f.store.cart.AppliedCoupons)
	assert.Empty(t, f.store.freeLines())
}

func TestApplyCoupon_BelowThreshold_RaisesNotice(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 2)

	result, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)

	assert.Empty(t, f.store.freeLines())

	found := false
	for _, n := range result.Notices {
		if n.Type == NoticeTypeNotice {
			found = true
		}
	}
	assert.True(t, found, "expected a notice about missing eligibility")
}

func TestApplyCoupon_Twice_IsRejected(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)

	_, err = f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	assert.ErrorIs(t, err, ErrCouponAlreadyApplied)
}

func TestApplyCoupon_UnknownCode(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "nope")
	assert.ErrorIs(t, err, couponmodel.ErrCouponNotFound)
}

// ---------------------------------------------------------------------
// Eligibility arithmetic through reconciliation
// ---------------------------------------------------------------------

func TestReconcile_EligibilityBoundaries(t *testing.T) {
	cases := []struct {
		bought int
		free   int
	}{
		{bought: 1, free: 0},
		{bought: 2, free: 0},
		{bought: 3, free: 1},
		{bought: 5, free: 1},
		{bought: 6, free: 2},
		{bought: 7, free: 2},
	}

	for _, tc := range cases {
		f := newFixture(t)
		f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
		paid := f.addPaidLine(f.mainProduct, 3)
		_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
		require.NoError(t, err)

		paid.Quantity = tc.bought
		_, err = f.engine.OnQuantityChanged(context.Background(), f.cartID)
		require.NoError(t, err)

		total := 0
		for _, line := range f.store.freeLines() {
			total += line.Quantity
		}
		assert.Equalf(t, tc.free, total, "bought=%d", tc.bought)
	}
}

func TestReconcile_MaxFreeQuantityCap(t *testing.T) {
	f := newFixture(t)
	rule := buyRule(f.mainProduct, 3, f.giftProduct, 1)
	rule.MaxFreeQuantity = intPtr(1)
	f.addCoupon("capped", boolPtr(false), rule)
	f.addPaidLine(f.mainProduct, 9)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "capped")
	require.NoError(t, err)

	free := f.store.freeLines()
	require.Len(t, free, 1)
	assert.Equal(t, 1, free[0].Quantity)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 6)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)
	require.Equal(t, 2, f.store.freeLines()[0].Quantity)

	result, err := f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.False(t, result.Changed)
	require.Len(t, f.store.freeLines(), 1)
	assert.Equal(t, 2, f.store.freeLines()[0].Quantity)
}

func TestReconcile_ShrinksAndRemoves(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	paid := f.addPaidLine(f.mainProduct, 6)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)
	require.Equal(t, 2, f.store.freeLines()[0].Quantity)

	paid.Quantity = 3
	_, err = f.engine.OnQuantityChanged(context.Background(), f.cartID)
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)
	assert.Equal(t, 1, f.store.freeLines()[0].Quantity)

	paid.Quantity = 2
	_, err = f.engine.OnQuantityChanged(context.Background(), f.cartID)
	require.NoError(t, err)
	assert.Empty(t, f.store.freeLines())
}

func TestReconcile_ItemRemovedDropsGrant(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	paid := f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)

	require.NoError(t, f.store.DeleteLine(context.Background(), paid.ID))
	_, err = f.engine.OnItemRemoved(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.Empty(t, f.store.freeLines())
	// The coupon stays applied; re-adding the product regrants
	assert.Equal(t, []string{"getone"}, f.store.cart.AppliedCoupons)

	f.addPaidLine(f.mainProduct, 3)
	_, err = f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)
	assert.Equal(t, 1, f.store.freeLines()[0].Quantity)
}

// ---------------------------------------------------------------------
// Coupon removal
// ---------------------------------------------------------------------

func TestRemoveCoupon_DropsItsFreeLines(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)

	result, err := f.engine.OnCouponRemoved(context.Background(), f.cartID, "getone")
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Empty(t, f.store.cart.AppliedCoupons)
	assert.Empty(t, f.store.freeLines())
	// Paid lines are untouched
	assert.NotNil(t, f.store.paidLine(f.mainProduct))
}

func TestRemoveCoupon_NotApplied(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))

	_, err := f.engine.OnCouponRemoved(context.Background(), f.cartID, "getone")
	assert.ErrorIs(t, err, ErrCouponNotApplied)
}

// ---------------------------------------------------------------------
// Variant matching
// ---------------------------------------------------------------------

func TestReconcile_ParentRefAggregatesVariants(t *testing.T) {
	f := newFixture(t)

	parent := uuid.New()
	variantA := uuid.New()
	variantB := uuid.New()
	f.products.byRef[parent] = &productmodel.Resolution{
		Ref: parent, Exists: true, InStock: true,
		Price: decimal.NewFromInt(30), DisplayName: "Hoodie",
	}
	f.products.byRef[variantA] = &productmodel.Resolution{
		Ref: variantA, Exists: true, IsVariant: true, ParentID: &parent,
		InStock: true, Price: decimal.NewFromInt(30), DisplayName: "Hoodie - S",
	}
	f.products.byRef[variantB] = &productmodel.Resolution{
		Ref: variantB, Exists: true, IsVariant: true, ParentID: &parent,
		InStock: true, Price: decimal.NewFromInt(30), DisplayName: "Hoodie - M",
	}

	f.addCoupon("hoodie", boolPtr(false), buyRule(parent, 3, f.giftProduct, 1))

	// Two variant lines of the same parent together meet the threshold
	lineA := &cartmodel.CartLine{
		ID: uuid.New(), CartID: f.cartID, ProductID: parent,
		VariantID: &variantA, Quantity: 2, Price: decimal.NewFromInt(30),
	}
	lineB := &cartmodel.CartLine{
		ID: uuid.New(), CartID: f.cartID, ProductID: parent,
		VariantID: &variantB, Quantity: 1, Price: decimal.NewFromInt(30),
	}
	f.store.lines = append(f.store.lines, lineA, lineB)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "hoodie")
	require.NoError(t, err)

	free := f.store.freeLines()
	require.Len(t, free, 1)
	assert.Equal(t, 1, free[0].Quantity)
}

func TestReconcile_VariantRefMatchesExactly(t *testing.T) {
	f := newFixture(t)

	parent := uuid.New()
	variantA := uuid.New()
	variantB := uuid.New()
	f.products.byRef[variantA] = &productmodel.Resolution{
		Ref: variantA, Exists: true, IsVariant: true, ParentID: &parent,
		InStock: true, Price: decimal.NewFromInt(30), DisplayName: "Hoodie - S",
	}

	f.addCoupon("smallonly", boolPtr(false), buyRule(variantA, 2, f.giftProduct, 1))

	// A sibling variant must not count toward the threshold
	lineB := &cartmodel.CartLine{
		ID: uuid.New(), CartID: f.cartID, ProductID: parent,
		VariantID: &variantB, Quantity: 5, Price: decimal.NewFromInt(30),
	}
	f.store.lines = append(f.store.lines, lineB)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "smallonly")
	require.NoError(t, err)
	assert.Empty(t, f.store.freeLines())

	lineA := &cartmodel.CartLine{
		ID: uuid.New(), CartID: f.cartID, ProductID: parent,
		VariantID: &variantA, Quantity: 2, Price: decimal.NewFromInt(30),
	}
	f.store.lines = append(f.store.lines, lineA)

	_, err = f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)
}

func TestReconcile_FreeVariantLineCarriesParent(t *testing.T) {
	f := newFixture(t)

	parent := uuid.New()
	giftVariant := uuid.New()
	f.products.byRef[giftVariant] = &productmodel.Resolution{
		Ref: giftVariant, Exists: true, IsVariant: true, ParentID: &parent,
		InStock: true, Price: decimal.NewFromInt(5), DisplayName: "Sticker - Gold",
	}

	f.addCoupon("gold", boolPtr(false), buyRule(f.mainProduct, 2, giftVariant, 1))
	f.addPaidLine(f.mainProduct, 2)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "gold")
	require.NoError(t, err)

	free := f.store.freeLines()
	require.Len(t, free, 1)
	assert.Equal(t, parent, free[0].ProductID)
	require.NotNil(t, free[0].VariantID)
	assert.Equal(t, giftVariant, *free[0].VariantID)
}

// ---------------------------------------------------------------------
// Stock guard
// ---------------------------------------------------------------------

func TestReconcile_OutOfStockGiftIsRefused(t *testing.T) {
	f := newFixture(t)
	f.products.byRef[f.giftProduct].InStock = false

	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	result, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)

	assert.Empty(t, f.store.freeLines())

	warned := false
	for _, n := range result.Notices {
		if n.Type == NoticeTypeError {
			warned = true
		}
	}
	assert.True(t, warned, "expected an out-of-stock warning")

	// Back in stock, the next pass grants
	f.products.byRef[f.giftProduct].InStock = true
	_, err = f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)
}

// ---------------------------------------------------------------------
// Auto-apply
// ---------------------------------------------------------------------

func TestAutoApply_AppliesQualifyingCoupon(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("auto", nil, buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	result, err := f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, []string{"auto"}, f.store.cart.AppliedCoupons)
	require.Len(t, f.store.freeLines(), 1)
}

func TestAutoApply_RemovesWhenNoLongerQualifying(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("auto", nil, buyRule(f.mainProduct, 3, f.giftProduct, 1))
	paid := f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)
	require.Equal(t, []string{"auto"}, f.store.cart.AppliedCoupons)

	paid.Quantity = 2
	_, err = f.engine.OnQuantityChanged(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.Empty(t, f.store.cart.AppliedCoupons)
	assert.Empty(t, f.store.freeLines())
}

func TestAutoApply_SkipsOptedOutCoupon(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("manual", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.Empty(t, f.store.cart.AppliedCoupons)
}

func TestAutoApply_DisabledGlobally(t *testing.T) {
	f := newFixture(t)
	f.withSettings(true, false)
	f.addCoupon("auto", nil, buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.Empty(t, f.store.cart.AppliedCoupons)
}

func TestAutoApply_QualificationIgnoresCap(t *testing.T) {
	f := newFixture(t)
	rule := buyRule(f.mainProduct, 3, f.giftProduct, 1)
	rule.MaxFreeQuantity = intPtr(1)
	f.addCoupon("auto", nil, rule)
	paid := f.addPaidLine(f.mainProduct, 9)

	_, err := f.engine.OnItemAdded(context.Background(), f.cartID)
	require.NoError(t, err)
	require.Equal(t, []string{"auto"}, f.store.cart.AppliedCoupons)
	require.Len(t, f.store.freeLines(), 1)
	assert.Equal(t, 1, f.store.freeLines()[0].Quantity)

	// Still over the buy threshold, so the coupon stays applied even
	// though the cap already limits the grant
	paid.Quantity = 6
	_, err = f.engine.OnQuantityChanged(context.Background(), f.cartID)
	require.NoError(t, err)
	assert.Equal(t, []string{"auto"}, f.store.cart.AppliedCoupons)
}

// ---------------------------------------------------------------------
// Auto-add disabled
// ---------------------------------------------------------------------

func TestReconcile_AutoAddDisabledOnlyNotifies(t *testing.T) {
	f := newFixture(t)
	f.withSettings(false, false)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	result, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)

	assert.Empty(t, f.store.freeLines())

	invited := false
	for _, n := range result.Notices {
		if n.Type == NoticeTypeNotice {
			invited = true
		}
	}
	assert.True(t, invited, "expected an invitation notice")
}

// ---------------------------------------------------------------------
// Validation pass
// ---------------------------------------------------------------------

func TestValidate_RemovesOrphanedFreeLines(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)

	// The coupon vanishes from the store while its code survives on
	// the cart; the free line it granted must be dropped silently.
	delete(f.coupons.byCode, "getone")

	result, err := f.engine.Validate(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Empty(t, result.Notices)
	assert.Empty(t, f.store.freeLines())
}

func TestValidate_RemovesWhenProductDisappears(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)

	delete(f.products.byRef, f.giftProduct)

	result, err := f.engine.Validate(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Empty(t, f.store.freeLines())
}

func TestValidate_RemovesWhenBuyThresholdLost(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	paid := f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)

	// The paid line vanishes without any cart transition firing; the
	// grant no longer meets the buy threshold.
	require.NoError(t, f.store.DeleteLine(context.Background(), paid.ID))

	result, err := f.engine.Validate(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Empty(t, result.Notices)
	assert.Empty(t, f.store.freeLines())
}

func TestValidate_RemovesWhenThresholdPartiallyLost(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	paid := f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)
	require.Len(t, f.store.freeLines(), 1)

	// Quantity decays below the threshold behind the engine's back
	paid.Quantity = 2

	result, err := f.engine.Validate(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Empty(t, f.store.freeLines())
}

func TestValidate_KeepsHealthyFreeLines(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	require.NoError(t, err)

	result, err := f.engine.Validate(context.Background(), f.cartID)
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Len(t, f.store.freeLines(), 1)
}

// ---------------------------------------------------------------------
// Recursion guard
// ---------------------------------------------------------------------

func TestRecursionGuard_StopsNestedPasses(t *testing.T) {
	f := newFixture(t)
	f.addCoupon("getone", boolPtr(false), buyRule(f.mainProduct, 3, f.giftProduct, 1))
	f.addPaidLine(f.mainProduct, 3)

	// A store that re-enters the engine on every free-line insert
	// would loop forever without the depth cap.
	f.store.onInsert = func(_ *cartmodel.CartLine) error {
		_, err := f.engine.OnItemAdded(context.Background(), f.cartID)
		return err
	}

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "getone")
	assert.ErrorIs(t, err, ErrRecursionLimit)
}

// ---------------------------------------------------------------------
// Multiple rules
// ---------------------------------------------------------------------

func TestReconcile_RulesAggregateIndependently(t *testing.T) {
	f := newFixture(t)

	secondGift := uuid.New()
	f.products.byRef[secondGift] = &productmodel.Resolution{
		Ref: secondGift, Exists: true, InStock: true,
		Price: decimal.NewFromInt(3), DisplayName: "Keychain",
	}

	// Both rules watch the same buy product; each one counts the full
	// paid quantity for itself.
	f.addCoupon("double", boolPtr(false),
		buyRule(f.mainProduct, 3, f.giftProduct, 1),
		buyRule(f.mainProduct, 5, secondGift, 2),
	)
	f.addPaidLine(f.mainProduct, 5)

	_, err := f.engine.OnCouponApplied(context.Background(), f.cartID, "double")
	require.NoError(t, err)

	free := f.store.freeLines()
	require.Len(t, free, 2)

	byRef := map[uuid.UUID]int{}
	for _, line := range free {
		byRef[line.EffectiveRef()] = line.Quantity
	}
	assert.Equal(t, 1, byRef[f.giftProduct])
	assert.Equal(t, 2, byRef[secondGift])
}
