package repository

import (
	"context"

	"bogo-backend/internal/domains/product/model"

	"github.com/google/uuid"
)

// RepositoryInterface defines data access methods for products
type RepositoryInterface interface {
	// GetByID retrieves a product or variant by id
	// Returns: nil if not exists (don't treat as error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// List returns active top-level products, newest first
	// Returns: products, total count, error
	List(ctx context.Context, page, pageSize int) ([]model.Product, int, error)

	// ListVariants returns the active variants of a product
	ListVariants(ctx context.Context, parentID uuid.UUID) ([]model.Product, error)

	// Create inserts a product or variant
	Create(ctx context.Context, product *model.Product) error

	// UpdateStock sets the tracked stock quantity
	UpdateStock(ctx context.Context, id uuid.UUID, quantity *int) error
}
