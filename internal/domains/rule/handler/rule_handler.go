package handler

import (
	"errors"
	"net/http"

	couponmodel "bogo-backend/internal/domains/coupon/model"
	"bogo-backend/internal/domains/rule/model"
	"bogo-backend/internal/domains/rule/service"
	"bogo-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles admin HTTP requests for coupon rules
type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates handler instance
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GetRules handles GET /admin/coupons/:id/rules
func (h *Handler) GetRules(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	rules, err := h.service.GetRules(c.Request.Context(), couponID)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, toResponses(rules))
}

// ReplaceRules handles PUT /admin/coupons/:id/rules
func (h *Handler) ReplaceRules(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	var req model.ReplaceRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rules, err := h.service.ReplaceRules(c.Request.Context(), couponID, &req)
	if err != nil {
		if errors.Is(err, couponmodel.ErrCouponNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, toResponses(rules))
}

func toResponses(rules []model.Rule) []*model.RuleResponse {
	items := make([]*model.RuleResponse, 0, len(rules))
	for i := range rules {
		items = append(items, rules[i].ToResponse())
	}
	return items
}
