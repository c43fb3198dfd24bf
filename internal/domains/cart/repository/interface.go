package repository

import (
	"context"

	"bogo-backend/internal/domains/cart/model"

	"github.com/google/uuid"
)

// RepositoryInterface defines data access methods for cart
type RepositoryInterface interface {
	// GetByID retrieves a cart by id
	GetByID(ctx context.Context, cartID uuid.UUID) (*model.Cart, error)

	// GetByUserID retrieves cart for authenticated user
	// Returns: nil if not exists (don't treat as error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetBySessionID retrieves cart for anonymous user
	// Returns: nil if not exists (don't treat as error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Cart, error)

	// Create creates new cart
	Create(ctx context.Context, cart *model.Cart) error

	// UpdateExpiration extends cart expiration by 30 days
	UpdateExpiration(ctx context.Context, cartID uuid.UUID) error

	// SetAppliedCoupons replaces the cart's applied coupon codes,
	// preserving slice order
	SetAppliedCoupons(ctx context.Context, cartID uuid.UUID, codes []string) error

	// ListLines retrieves all lines of a cart, oldest first
	ListLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error)

	// GetLineByID retrieves a single cart line
	GetLineByID(ctx context.Context, lineID uuid.UUID) (*model.CartLine, error)

	// GetPaidLine finds the paid line holding the given product/variant
	// Returns: line if exists, nil if not
	GetPaidLine(ctx context.Context, cartID uuid.UUID, productID uuid.UUID, variantID *uuid.UUID) (*model.CartLine, error)

	// InsertLine inserts a line, paid or free
	InsertLine(ctx context.Context, line *model.CartLine) error

	// UpdateLineQuantity sets a line's quantity
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error

	// DeleteLine removes a line from its cart
	DeleteLine(ctx context.Context, lineID uuid.UUID) error

	// ClearLines removes all lines of a cart
	// Returns: number of deleted lines
	ClearLines(ctx context.Context, cartID uuid.UUID) (int, error)

	// DeleteExpiredCarts deletes expired carts (background job)
	// Returns: number of deleted carts
	DeleteExpiredCarts(ctx context.Context) (int, error)
}
