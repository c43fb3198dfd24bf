package repository

import (
	"context"

	"bogo-backend/internal/domains/cart/model"

	"github.com/google/uuid"
)

// EngineStore adapts the repository to the promotion engine's store
// surface. The engine mutating through the repository, never through
// the cart service, is what keeps free-line writes from re-entering
// the service transition hooks.
type EngineStore struct {
	repo RepositoryInterface
}

func NewEngineStore(repo RepositoryInterface) *EngineStore {
	return &EngineStore{repo: repo}
}

func (s *EngineStore) GetCart(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	return s.repo.GetByID(ctx, cartID)
}

func (s *EngineStore) ListLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	return s.repo.ListLines(ctx, cartID)
}

func (s *EngineStore) InsertFreeLine(ctx context.Context, line *model.CartLine) error {
	return s.repo.InsertLine(ctx, line)
}

func (s *EngineStore) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return s.repo.UpdateLineQuantity(ctx, lineID, quantity)
}

func (s *EngineStore) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return s.repo.DeleteLine(ctx, lineID)
}

func (s *EngineStore) SetAppliedCoupons(ctx context.Context, cartID uuid.UUID, codes []string) error {
	return s.repo.SetAppliedCoupons(ctx, cartID, codes)
}
