package service

import (
	"context"
	"fmt"
	"time"

	"bogo-backend/internal/domains/bogo"
	"bogo-backend/internal/domains/cart/model"
	repo "bogo-backend/internal/domains/cart/repository"
	productmodel "bogo-backend/internal/domains/product/model"
	productService "bogo-backend/internal/domains/product/service"
	"bogo-backend/internal/shared"
	"bogo-backend/internal/shared/utils"
	"bogo-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

type CartService struct {
	repository  repo.RepositoryInterface
	products    productService.ServiceInterface
	engine      bogo.Engine
	settings    bogo.Settings
	asynqClient *asynq.Client
}

func NewCartService(
	r repo.RepositoryInterface,
	products productService.ServiceInterface,
	engine bogo.Engine,
	settings bogo.Settings,
	asynqClient *asynq.Client,
) ServiceInterface {
	return &CartService{
		repository:  r,
		products:    products,
		engine:      engine,
		settings:    settings,
		asynqClient: asynqClient,
	}
}

// GetOrCreateCartForUser implements ServiceInterface.GetOrCreateCartForUser
func (s *CartService) GetOrCreateCartForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	cart, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if cart != nil {
		return cart.ID, nil
	}

	cart = newCart()
	cart.UserID = &userID
	if err := s.repository.Create(ctx, cart); err != nil {
		return uuid.Nil, err
	}

	return cart.ID, nil
}

// GetOrCreateCartBySession implements ServiceInterface.GetOrCreateCartBySession
func (s *CartService) GetOrCreateCartBySession(ctx context.Context, sessionID string) (uuid.UUID, error) {
	cart, err := s.repository.GetBySessionID(ctx, sessionID)
	if err != nil {
		return uuid.Nil, err
	}
	if cart != nil {
		return cart.ID, nil
	}

	cart = newCart()
	cart.SessionID = &sessionID
	if err := s.repository.Create(ctx, cart); err != nil {
		return uuid.Nil, err
	}

	return cart.ID, nil
}

func newCart() *model.Cart {
	now := time.Now()
	return &model.Cart{
		ID:             uuid.New(),
		AppliedCoupons: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.AddDate(0, 0, model.DefaultCartExpirationDays),
	}
}

// GetCart implements ServiceInterface.GetCart
func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*model.CartResponse, error) {
	// Stale free lines are dropped silently before the cart is shown
	if _, err := s.engine.Validate(ctx, cartID); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, cartID, nil)
}

// AddItem implements ServiceInterface.AddItem
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req *model.AddToCartRequest) (*model.CartResponse, error) {
	// Step 1: Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Resolve the product or variant being added
	ref := req.ProductID
	if req.VariantID != nil {
		ref = *req.VariantID
	}
	res, err := s.products.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !res.Exists {
		return nil, productmodel.ErrProductNotFound
	}
	if !res.InStock {
		return nil, fmt.Errorf("product %q: %w", res.DisplayName, productmodel.ErrProductOutOfStock)
	}

	productID := req.ProductID
	var variantID *uuid.UUID
	if res.IsVariant {
		if res.ParentID != nil {
			productID = *res.ParentID
		}
		variantID = &ref
	}

	// Step 3: Top up an existing paid line or insert a new one
	existing, err := s.repository.GetPaidLine(ctx, cartID, productID, variantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.repository.UpdateLineQuantity(ctx, existing.ID, existing.Quantity+req.Quantity); err != nil {
			return nil, err
		}
	} else {
		line := &model.CartLine{
			ID:        uuid.New(),
			CartID:    cartID,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  req.Quantity,
			Price:     res.Price,
		}
		if err := s.repository.InsertLine(ctx, line); err != nil {
			return nil, err
		}
	}

	// Step 4: Promotion pass
	result, err := s.engine.OnItemAdded(ctx, cartID)
	if err != nil {
		return nil, err
	}

	// Step 5: Keep the cart alive
	if err := s.repository.UpdateExpiration(ctx, cartID); err != nil {
		logger.Warn("failed to extend cart expiration", map[string]interface{}{
			"cart_id": cartID.String(),
			"error":   err.Error(),
		})
	}

	return s.buildResponse(ctx, cartID, result.Notices)
}

// UpdateLineQuantity implements ServiceInterface.UpdateLineQuantity
func (s *CartService) UpdateLineQuantity(ctx context.Context, cartID, lineID uuid.UUID, req *model.UpdateCartLineRequest) (*model.CartResponse, error) {
	// Step 1: Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: The line must be a paid line of this cart
	line, err := s.repository.GetLineByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line.CartID != cartID {
		return nil, model.ErrLineNotBelongToCart
	}
	if line.IsFree() {
		return nil, model.ErrFreeLineImmutable
	}

	// Step 3: Update and rebuild grants
	if err := s.repository.UpdateLineQuantity(ctx, lineID, req.Quantity); err != nil {
		return nil, err
	}

	result, err := s.engine.OnQuantityChanged(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, cartID, result.Notices)
}

// RemoveLine implements ServiceInterface.RemoveLine
func (s *CartService) RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) (*model.CartResponse, error) {
	// Step 1: The line must be a paid line of this cart
	line, err := s.repository.GetLineByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line.CartID != cartID {
		return nil, model.ErrLineNotBelongToCart
	}
	if line.IsFree() {
		return nil, model.ErrFreeLineImmutable
	}

	// Step 2: Delete and rebuild grants
	if err := s.repository.DeleteLine(ctx, lineID); err != nil {
		return nil, err
	}

	result, err := s.engine.OnItemRemoved(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, cartID, result.Notices)
}

// ApplyCoupon implements ServiceInterface.ApplyCoupon
func (s *CartService) ApplyCoupon(ctx context.Context, cartID uuid.UUID, code string) (*model.CartResponse, error) {
	result, err := s.engine.OnCouponApplied(ctx, cartID, code)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, cartID, result.Notices)
}

// RemoveCoupon implements ServiceInterface.RemoveCoupon
func (s *CartService) RemoveCoupon(ctx context.Context, cartID uuid.UUID, code string) (*model.CartResponse, error) {
	result, err := s.engine.OnCouponRemoved(ctx, cartID, code)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, cartID, result.Notices)
}

// Checkout implements ServiceInterface.Checkout
func (s *CartService) Checkout(ctx context.Context, cartID uuid.UUID, userID *uuid.UUID, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	// Step 1: Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Drop any free lines that no longer hold up
	if _, err := s.engine.Validate(ctx, cartID); err != nil {
		return nil, err
	}

	// Step 3: Load the cart contents
	cart, err := s.repository.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repository.ListLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !hasPaidLine(lines) {
		return nil, model.ErrCartEmpty
	}

	// Step 4: Totals
	subtotal, discount := s.cartTotals(ctx, lines)
	now := time.Now()
	orderID := uuid.New()

	// Step 5: Record usage for every free line, one task per line.
	// Recording is fire and forget; checkout never fails on it.
	for i := range lines {
		line := &lines[i]
		if !line.IsFree() {
			continue
		}
		s.enqueueUsageRecord(&model.RecordBogoUsagePayload{
			RuleID:       line.FreeTag.RuleID,
			OrderID:      orderID,
			UserID:       userID,
			CouponCode:   line.FreeTag.CouponCode,
			FreeQuantity: line.Quantity,
			UsedAt:       now,
		})
	}

	// Step 6: Empty the cart
	if _, err := s.repository.ClearLines(ctx, cartID); err != nil {
		return nil, err
	}
	if err := s.repository.SetAppliedCoupons(ctx, cartID, []string{}); err != nil {
		return nil, err
	}

	logger.Info("checkout completed", map[string]interface{}{
		"cart_id":  cartID.String(),
		"order_id": orderID.String(),
		"total":    subtotal.Sub(discount).String(),
	})

	return &model.CheckoutResponse{
		OrderID:        orderID,
		Subtotal:       subtotal,
		Discount:       discount,
		Total:          subtotal.Sub(discount),
		AppliedCoupons: cart.AppliedCoupons,
		PaymentMethod:  req.PaymentMethod,
		CreatedAt:      now,
	}, nil
}

// CleanupExpiredCarts implements ServiceInterface.CleanupExpiredCarts
func (s *CartService) CleanupExpiredCarts(ctx context.Context) (int, error) {
	return s.repository.DeleteExpiredCarts(ctx)
}

func (s *CartService) enqueueUsageRecord(payload *model.RecordBogoUsagePayload) {
	if s.asynqClient == nil {
		return
	}

	task, err := utils.MarshalTask(shared.TypeRecordBogoUsage, payload)
	if err != nil {
		logger.Error("failed to build usage record task", err)
		return
	}

	if _, err := s.asynqClient.Enqueue(task, asynq.Queue(shared.QueueLow), asynq.MaxRetry(5)); err != nil {
		logger.Error("failed to enqueue usage record task", err)
	}
}

// hasPaidLine reports whether the cart holds anything the customer pays for
func hasPaidLine(lines []model.CartLine) bool {
	for i := range lines {
		if !lines[i].IsFree() {
			return true
		}
	}
	return false
}

// unitPrices returns the full and charged unit price of a line. Free
// lines price against the live product so a catalog price change made
// after the grant flows into the discount; when the product no longer
// resolves, the stored snapshot is the fallback. Paid lines charge the
// snapshot taken when they were added.
func (s *CartService) unitPrices(ctx context.Context, line *model.CartLine) (full, charged decimal.Decimal) {
	full = line.Price
	if !line.IsFree() {
		return full, full
	}
	if res, err := s.products.Resolve(ctx, line.EffectiveRef()); err == nil && res.Exists {
		full = res.Price
	}
	return full, line.FreeTag.DiscountedPrice(full)
}

// cartTotals sums the full-price subtotal and the promotional discount
func (s *CartService) cartTotals(ctx context.Context, lines []model.CartLine) (subtotal, discount decimal.Decimal) {
	subtotal = decimal.Zero
	discount = decimal.Zero
	for i := range lines {
		line := &lines[i]
		full, charged := s.unitPrices(ctx, line)
		quantity := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(full.Mul(quantity))
		if line.IsFree() {
			discount = discount.Add(full.Sub(charged).Mul(quantity))
		}
	}
	return subtotal, discount
}

// buildResponse assembles the cart response with product names and totals
func (s *CartService) buildResponse(ctx context.Context, cartID uuid.UUID, notices []bogo.Notice) (*model.CartResponse, error) {
	cart, err := s.repository.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repository.ListLines(ctx, cartID)
	if err != nil {
		return nil, err
	}

	label := s.settings.FreeItemLabel()

	lineResponses := make([]model.CartLineResponse, 0, len(lines))
	itemsCount := 0
	for i := range lines {
		line := &lines[i]
		itemsCount += line.Quantity

		full, charged := s.unitPrices(ctx, line)

		lineResp := model.CartLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			Price:     full,
			UnitPrice: charged,
			LineTotal: charged.Mul(decimal.NewFromInt(int64(line.Quantity))),
			IsFree:    line.IsFree(),
		}

		if res, err := s.products.Resolve(ctx, line.EffectiveRef()); err == nil && res.Exists {
			lineResp.ProductName = res.DisplayName
		}

		if line.IsFree() {
			lineResp.FreeLabel = &label
			code := line.FreeTag.CouponCode
			lineResp.CouponCode = &code
			pct := line.FreeTag.DiscountPercentage
			lineResp.DiscountPercentage = &pct
		}

		lineResponses = append(lineResponses, lineResp)
	}

	subtotal, discount := s.cartTotals(ctx, lines)

	resp := &model.CartResponse{
		ID:             cart.ID,
		UserID:         cart.UserID,
		Lines:          lineResponses,
		ItemsCount:     itemsCount,
		Subtotal:       subtotal,
		Discount:       discount,
		Total:          subtotal.Sub(discount),
		AppliedCoupons: cart.AppliedCoupons,
		ExpiresAt:      cart.ExpiresAt,
		CreatedAt:      cart.CreatedAt,
		UpdatedAt:      cart.UpdatedAt,
	}

	for _, n := range notices {
		resp.Notices = append(resp.Notices, model.NoticeResponse{Type: n.Type, Message: n.Message})
	}

	return resp, nil
}
