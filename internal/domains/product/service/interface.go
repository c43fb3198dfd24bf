package service

import (
	"context"

	"bogo-backend/internal/domains/product/model"

	"github.com/google/uuid"
)

// ServiceInterface defines business logic methods for products
type ServiceInterface interface {
	// Resolve snapshots a product or variant reference for the cart
	// and promotion flows. Missing references resolve with
	// Exists=false rather than an error.
	Resolve(ctx context.Context, ref uuid.UUID) (*model.Resolution, error)

	// GetProduct returns a product or model.ErrProductNotFound
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// ListProducts returns active top-level products
	ListProducts(ctx context.Context, page, pageSize int) ([]model.Product, int, error)

	// ListVariants returns the active variants of a product
	ListVariants(ctx context.Context, parentID uuid.UUID) ([]model.Product, error)

	// CreateProduct inserts a product or variant
	CreateProduct(ctx context.Context, product *model.Product) error

	// UpdateStock sets tracked stock and drops the cached resolution
	UpdateStock(ctx context.Context, id uuid.UUID, quantity *int) error
}
