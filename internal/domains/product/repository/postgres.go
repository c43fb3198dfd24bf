package repository

import (
	"context"
	"errors"
	"fmt"

	"bogo-backend/internal/domains/product/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const productColumns = `id, parent_id, name, sku, price, stock_quantity, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var product model.Product
	err := row.Scan(
		&product.ID,
		&product.ParentID,
		&product.Name,
		&product.SKU,
		&product.Price,
		&product.StockQuantity,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// List implements RepositoryInterface.List
func (r *postgresRepository) List(ctx context.Context, page, pageSize int) ([]model.Product, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE parent_id IS NULL AND is_active = TRUE`
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE parent_id IS NULL AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading products: %w", err)
	}

	return products, total, nil
}

// ListVariants implements RepositoryInterface.ListVariants
func (r *postgresRepository) ListVariants(ctx context.Context, parentID uuid.UUID) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE parent_id = $1 AND is_active = TRUE
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	var variants []model.Product
	for rows.Next() {
		variant, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, *variant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading variants: %w", err)
	}

	return variants, nil
}

// Create implements RepositoryInterface.Create
func (r *postgresRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, parent_id, name, sku, price, stock_quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.ParentID,
		product.Name,
		product.SKU,
		product.Price,
		product.StockQuantity,
		product.IsActive,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// UpdateStock implements RepositoryInterface.UpdateStock
func (r *postgresRepository) UpdateStock(ctx context.Context, id uuid.UUID, quantity *int) error {
	query := `
		UPDATE products
		SET stock_quantity = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}
