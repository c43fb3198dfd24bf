package service

import (
	"context"

	"bogo-backend/internal/domains/cart/model"

	"github.com/google/uuid"
)

// ServiceInterface defines business logic methods for the cart
type ServiceInterface interface {
	// GetOrCreateCartForUser resolves the authenticated user's cart,
	// creating one when none exists
	GetOrCreateCartForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)

	// GetOrCreateCartBySession resolves an anonymous session's cart
	GetOrCreateCartBySession(ctx context.Context, sessionID string) (uuid.UUID, error)

	// GetCart runs the free-line validation pass and returns the cart
	// with lines, totals and applied coupons
	GetCart(ctx context.Context, cartID uuid.UUID) (*model.CartResponse, error)

	// AddItem adds a paid line and runs the promotion pass
	AddItem(ctx context.Context, cartID uuid.UUID, req *model.AddToCartRequest) (*model.CartResponse, error)

	// UpdateLineQuantity changes a paid line's quantity. Free lines
	// cannot be edited directly.
	UpdateLineQuantity(ctx context.Context, cartID, lineID uuid.UUID, req *model.UpdateCartLineRequest) (*model.CartResponse, error)

	// RemoveLine removes a paid line. Free lines cannot be removed
	// directly; removing their coupon removes them.
	RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) (*model.CartResponse, error)

	// ApplyCoupon applies a coupon code to the cart
	ApplyCoupon(ctx context.Context, cartID uuid.UUID, code string) (*model.CartResponse, error)

	// RemoveCoupon removes a coupon and every free line it granted
	RemoveCoupon(ctx context.Context, cartID uuid.UUID, code string) (*model.CartResponse, error)

	// Checkout finalizes the cart into an order, records promotion
	// usage and empties the cart
	Checkout(ctx context.Context, cartID uuid.UUID, userID *uuid.UUID, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// CleanupExpiredCarts deletes expired carts (background job)
	CleanupExpiredCarts(ctx context.Context) (int, error)
}
