package job

import (
	"context"

	"bogo-backend/internal/domains/cart/repository"
	"bogo-backend/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// CleanupExpiredCartsHandler deletes carts past their expiration
type CleanupExpiredCartsHandler struct {
	cartRepo repository.RepositoryInterface
}

func NewCleanupExpiredCartsHandler(cartRepo repository.RepositoryInterface) *CleanupExpiredCartsHandler {
	return &CleanupExpiredCartsHandler{cartRepo: cartRepo}
}

func (h *CleanupExpiredCartsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	deleted, err := h.cartRepo.DeleteExpiredCarts(ctx)
	if err != nil {
		logger.Error("Delete expired carts failed due to ", err)
		return err
	}

	log.Info().
		Int("carts_deleted", deleted).
		Msg("Cleaned up expired carts")

	return nil
}
