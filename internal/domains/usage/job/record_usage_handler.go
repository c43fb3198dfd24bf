package job

import (
	"context"

	cartmodel "bogo-backend/internal/domains/cart/model"
	"bogo-backend/internal/domains/usage/model"
	"bogo-backend/internal/domains/usage/service"
	"bogo-backend/internal/shared/utils"
	"bogo-backend/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// RecordUsageHandler persists usage records enqueued at checkout
type RecordUsageHandler struct {
	usageService service.ServiceInterface
}

func NewRecordUsageHandler(usageService service.ServiceInterface) *RecordUsageHandler {
	return &RecordUsageHandler{usageService: usageService}
}

func (h *RecordUsageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload cartmodel.RecordBogoUsagePayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("Unmarshal usage payload failed due to ", err)
		return err
	}

	record := &model.UsageRecord{
		RuleID:       payload.RuleID,
		CouponCode:   payload.CouponCode,
		OrderID:      payload.OrderID,
		UserID:       payload.UserID,
		FreeQuantity: payload.FreeQuantity,
		UsedAt:       payload.UsedAt,
	}

	if err := h.usageService.Record(ctx, record); err != nil {
		logger.Error("Record usage failed due to ", err)
		return err
	}

	log.Info().
		Str("order_id", payload.OrderID.String()).
		Str("coupon_code", payload.CouponCode).
		Int("free_quantity", payload.FreeQuantity).
		Msg("Recorded promotion usage")

	return nil
}
