package service

import (
	"context"
	"testing"
	"time"

	"bogo-backend/internal/domains/bogo"
	"bogo-backend/internal/domains/cart/model"
	repo "bogo-backend/internal/domains/cart/repository"
	productmodel "bogo-backend/internal/domains/product/model"
	productService "bogo-backend/internal/domains/product/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine is a no-op engine; pricing tests exercise the cart as the
// engine left it.
type stubEngine struct{}

func (stubEngine) OnItemAdded(context.Context, uuid.UUID) (*bogo.Result, error) {
	return &bogo.Result{}, nil
}
func (stubEngine) OnQuantityChanged(context.Context, uuid.UUID) (*bogo.Result, error) {
	return &bogo.Result{}, nil
}
func (stubEngine) OnItemRemoved(context.Context, uuid.UUID) (*bogo.Result, error) {
	return &bogo.Result{}, nil
}
func (stubEngine) OnCouponApplied(context.Context, uuid.UUID, string) (*bogo.Result, error) {
	return &bogo.Result{}, nil
}
func (stubEngine) OnCouponRemoved(context.Context, uuid.UUID, string) (*bogo.Result, error) {
	return &bogo.Result{}, nil
}
func (stubEngine) Validate(context.Context, uuid.UUID) (*bogo.Result, error) {
	return &bogo.Result{}, nil
}

// stubRepo serves a fixed cart; unused methods panic via the embedded
// nil interface.
type stubRepo struct {
	repo.RepositoryInterface
	cart  *model.Cart
	lines []model.CartLine
}

func (s *stubRepo) GetByID(_ context.Context, cartID uuid.UUID) (*model.Cart, error) {
	if s.cart == nil || s.cart.ID != cartID {
		return nil, model.ErrCartNotFound
	}
	copied := *s.cart
	copied.AppliedCoupons = append([]string{}, s.cart.AppliedCoupons...)
	return &copied, nil
}

func (s *stubRepo) ListLines(_ context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	return append([]model.CartLine{}, s.lines...), nil
}

func (s *stubRepo) ClearLines(_ context.Context, cartID uuid.UUID) (int, error) {
	n := len(s.lines)
	s.lines = nil
	return n, nil
}

func (s *stubRepo) SetAppliedCoupons(_ context.Context, cartID uuid.UUID, codes []string) error {
	s.cart.AppliedCoupons = append([]string{}, codes...)
	return nil
}

type stubProducts struct {
	productService.ServiceInterface
	byRef map[uuid.UUID]*productmodel.Resolution
}

func (s *stubProducts) Resolve(_ context.Context, ref uuid.UUID) (*productmodel.Resolution, error) {
	if res, ok := s.byRef[ref]; ok {
		copied := *res
		return &copied, nil
	}
	return &productmodel.Resolution{Ref: ref, Exists: false}, nil
}

type pricingFixture struct {
	svc      ServiceInterface
	repo     *stubRepo
	products *stubProducts
	cartID   uuid.UUID

	paidProduct uuid.UUID
	giftProduct uuid.UUID
}

func newPricingFixture(t *testing.T) *pricingFixture {
	t.Helper()

	cartID := uuid.New()
	paidProduct := uuid.New()
	giftProduct := uuid.New()

	r := &stubRepo{
		cart: &model.Cart{
			ID:             cartID,
			AppliedCoupons: []string{"getone"},
			ExpiresAt:      time.Now().Add(time.Hour),
		},
	}
	products := &stubProducts{byRef: map[uuid.UUID]*productmodel.Resolution{
		paidProduct: {
			Ref: paidProduct, Exists: true, InStock: true,
			Price: decimal.NewFromInt(15), DisplayName: "Espresso Beans",
		},
		giftProduct: {
			Ref: giftProduct, Exists: true, InStock: true,
			Price: decimal.NewFromInt(20), DisplayName: "Travel Mug",
		},
	}}

	svc := NewCartService(r, products, stubEngine{}, bogo.NewStaticSettings(true, true, "Free gift"), nil)

	return &pricingFixture{
		svc:         svc,
		repo:        r,
		products:    products,
		cartID:      cartID,
		paidProduct: paidProduct,
		giftProduct: giftProduct,
	}
}

// addLine appends a line whose Price column holds the snapshot taken
// when the line was created.
func (f *pricingFixture) addLine(ref uuid.UUID, quantity int, snapshot int64, tag *model.FreeLineTag) {
	f.repo.lines = append(f.repo.lines, model.CartLine{
		ID:        uuid.New(),
		CartID:    f.cartID,
		ProductID: ref,
		Quantity:  quantity,
		Price:     decimal.NewFromInt(snapshot),
		FreeTag:   tag,
	})
}

func TestGetCart_FreeLineFollowsLivePrice(t *testing.T) {
	f := newPricingFixture(t)

	f.addLine(f.paidProduct, 1, 15, nil)
	// Granted at price 10 with 50% off; the product now costs 20
	f.addLine(f.giftProduct, 1, 10, &model.FreeLineTag{
		CouponCode:         "getone",
		RuleID:             uuid.New(),
		DiscountPercentage: decimal.NewFromInt(50),
		UniqueKey:          "getone_rule",
	})

	resp, err := f.svc.GetCart(context.Background(), f.cartID)
	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)

	free := resp.Lines[1]
	assert.True(t, free.Price.Equal(decimal.NewFromInt(20)), "full price should be the live price, got %s", free.Price)
	assert.True(t, free.UnitPrice.Equal(decimal.NewFromInt(10)), "unit price should be half the live price, got %s", free.UnitPrice)
	assert.True(t, free.LineTotal.Equal(decimal.NewFromInt(10)))

	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(35)))
	assert.True(t, resp.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(25)))
}

func TestGetCart_FullyFreeLineFollowsLivePrice(t *testing.T) {
	f := newPricingFixture(t)

	f.addLine(f.paidProduct, 2, 15, nil)
	f.addLine(f.giftProduct, 1, 10, &model.FreeLineTag{
		CouponCode:         "getone",
		RuleID:             uuid.New(),
		DiscountPercentage: decimal.NewFromInt(100),
		UniqueKey:          "getone_rule",
	})

	resp, err := f.svc.GetCart(context.Background(), f.cartID)
	require.NoError(t, err)

	free := resp.Lines[1]
	assert.True(t, free.UnitPrice.IsZero())
	// The discount reflects the live price, not the grant-time snapshot
	assert.True(t, resp.Discount.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(30)))
}

func TestGetCart_MissingProductFallsBackToSnapshot(t *testing.T) {
	f := newPricingFixture(t)

	f.addLine(f.paidProduct, 1, 15, nil)
	vanished := uuid.New()
	f.addLine(vanished, 1, 10, &model.FreeLineTag{
		CouponCode:         "getone",
		RuleID:             uuid.New(),
		DiscountPercentage: decimal.NewFromInt(100),
		UniqueKey:          "getone_rule",
	})

	resp, err := f.svc.GetCart(context.Background(), f.cartID)
	require.NoError(t, err)

	free := resp.Lines[1]
	assert.True(t, free.Price.Equal(decimal.NewFromInt(10)))
	assert.True(t, free.UnitPrice.IsZero())
}

func TestCheckout_TotalsUseLivePrice(t *testing.T) {
	f := newPricingFixture(t)

	f.addLine(f.paidProduct, 1, 15, nil)
	f.addLine(f.giftProduct, 1, 10, &model.FreeLineTag{
		CouponCode:         "getone",
		RuleID:             uuid.New(),
		DiscountPercentage: decimal.NewFromInt(50),
		UniqueKey:          "getone_rule",
	})

	order, err := f.svc.Checkout(context.Background(), f.cartID, nil, &model.CheckoutRequest{PaymentMethod: "cod"})
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(35)))
	assert.True(t, order.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(25)))
	assert.Empty(t, f.repo.lines)
}
