package main

import (
	"github.com/hibiken/asynq"

	cartJob "bogo-backend/internal/domains/cart/job"
	usageJob "bogo-backend/internal/domains/usage/job"
	"bogo-backend/internal/shared"
	"bogo-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	recordUsage  *usageJob.RecordUsageHandler
	cleanupCarts *cartJob.CleanupExpiredCartsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		recordUsage:  usageJob.NewRecordUsageHandler(c.UsageService),
		cleanupCarts: cartJob.NewCleanupExpiredCartsHandler(c.CartRepo),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeRecordBogoUsage, h.recordUsage.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupCarts, h.cleanupCarts.ProcessTask)
}
