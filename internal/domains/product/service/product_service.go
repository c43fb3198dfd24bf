package service

import (
	"context"
	"fmt"
	"time"

	"bogo-backend/internal/domains/product/model"
	repo "bogo-backend/internal/domains/product/repository"
	"bogo-backend/pkg/cache"
	"bogo-backend/pkg/logger"

	"github.com/google/uuid"
)

const (
	resolutionCacheKey = "product:resolve:%s"
	resolutionCacheTTL = 5 * time.Minute
)

type ProductService struct {
	repository repo.RepositoryInterface
	cache      cache.Cache
}

func NewProductService(r repo.RepositoryInterface, c cache.Cache) ServiceInterface {
	return &ProductService{
		repository: r,
		cache:      c,
	}
}

// Resolve implements ServiceInterface.Resolve
func (s *ProductService) Resolve(ctx context.Context, ref uuid.UUID) (*model.Resolution, error) {
	key := fmt.Sprintf(resolutionCacheKey, ref)

	// Step 1: Try cache
	if s.cache != nil {
		var cached model.Resolution
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("resolution cache read failed", map[string]interface{}{
				"ref":   ref.String(),
				"error": err.Error(),
			})
		} else if hit {
			return &cached, nil
		}
	}

	// Step 2: Load from repository
	product, err := s.repository.GetByID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	var res *model.Resolution
	if product == nil {
		res = &model.Resolution{Ref: ref, Exists: false}
	} else {
		res = product.ToResolution()
	}

	// Step 3: Cache the snapshot, misses included
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res, resolutionCacheTTL); err != nil {
			logger.Warn("resolution cache write failed", map[string]interface{}{
				"ref":   ref.String(),
				"error": err.Error(),
			})
		}
	}

	return res, nil
}

// GetProduct implements ServiceInterface.GetProduct
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// ListProducts implements ServiceInterface.ListProducts
func (s *ProductService) ListProducts(ctx context.Context, page, pageSize int) ([]model.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repository.List(ctx, page, pageSize)
}

// ListVariants implements ServiceInterface.ListVariants
func (s *ProductService) ListVariants(ctx context.Context, parentID uuid.UUID) ([]model.Product, error) {
	return s.repository.ListVariants(ctx, parentID)
}

// CreateProduct implements ServiceInterface.CreateProduct
func (s *ProductService) CreateProduct(ctx context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	// A variant's parent must exist and be a top-level product
	if product.ParentID != nil {
		parent, err := s.repository.GetByID(ctx, *product.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return model.ErrProductNotFound
		}
		if parent.IsVariant() {
			return fmt.Errorf("parent %s is itself a variant", parent.ID)
		}
	}

	if err := s.repository.Create(ctx, product); err != nil {
		return err
	}

	s.invalidateResolution(ctx, product.ID)
	return nil
}

// UpdateStock implements ServiceInterface.UpdateStock
func (s *ProductService) UpdateStock(ctx context.Context, id uuid.UUID, quantity *int) error {
	if err := s.repository.UpdateStock(ctx, id, quantity); err != nil {
		return err
	}

	s.invalidateResolution(ctx, id)
	return nil
}

func (s *ProductService) invalidateResolution(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, fmt.Sprintf(resolutionCacheKey, id)); err != nil {
		logger.Warn("resolution cache invalidation failed", map[string]interface{}{
			"ref":   id.String(),
			"error": err.Error(),
		})
	}
}
