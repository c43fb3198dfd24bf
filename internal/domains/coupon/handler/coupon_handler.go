package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bogo-backend/internal/domains/coupon/model"
	"bogo-backend/internal/domains/coupon/service"
	"bogo-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles admin HTTP requests for coupons
type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates handler instance
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListCoupons handles GET /admin/coupons
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	coupons, total, err := h.service.ListCoupons(c.Request.Context(), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]*model.CouponResponse, 0, len(coupons))
	for i := range coupons {
		items = append(items, coupons[i].ToResponse())
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  page,
		Limit: pageSize,
		Total: total,
	})
}

// GetCoupon handles GET /admin/coupons/:id
func (h *Handler) GetCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	coupon, err := h.service.GetCoupon(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, coupon.ToResponse())
}

// CreateCoupon handles POST /admin/coupons
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.service.CreateCoupon(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, coupon.ToResponse())
}

// UpdateCoupon handles PATCH /admin/coupons/:id
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.service.UpdateCoupon(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, coupon.ToResponse())
}

// DeleteCoupon handles DELETE /admin/coupons/:id
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	if err := h.service.DeleteCoupon(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCouponNotFound):
		response.ErrorResponse(c, http.StatusNotFound, string(model.ErrCodeCouponNotFound), err.Error())
	case errors.Is(err, model.ErrDuplicateCouponCode):
		response.ErrorResponse(c, http.StatusConflict, string(model.ErrCodeDuplicateCode), err.Error())
	default:
		response.BadRequest(c, err.Error())
	}
}
