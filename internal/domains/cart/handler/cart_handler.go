package handler

import (
	"errors"
	"net/http"

	"bogo-backend/internal/domains/bogo"
	"bogo-backend/internal/domains/cart/model"
	"bogo-backend/internal/domains/cart/service"
	couponmodel "bogo-backend/internal/domains/coupon/model"
	productmodel "bogo-backend/internal/domains/product/model"
	"bogo-backend/internal/shared/middleware"
	"bogo-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the cart
type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates handler instance
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GetCart handles GET /me/cart
func (h *Handler) GetCart(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		response.InternalServerError(c, "Cart could not be resolved")
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), cartID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// AddItem handles POST /me/cart/items
func (h *Handler) AddItem(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		response.InternalServerError(c, "Cart could not be resolved")
		return
	}

	var req model.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.service.AddItem(c.Request.Context(), cartID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// UpdateLine handles PATCH /me/cart/items/:lineID
func (h *Handler) UpdateLine(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		response.InternalServerError(c, "Cart could not be resolved")
		return
	}

	lineID, err := uuid.Parse(c.Param("lineID"))
	if err != nil {
		response.BadRequest(c, "Invalid line id")
		return
	}

	var req model.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.service.UpdateLineQuantity(c.Request.Context(), cartID, lineID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// RemoveLine handles DELETE /me/cart/items/:lineID
func (h *Handler) RemoveLine(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		response.InternalServerError(c, "Cart could not be resolved")
		return
	}

	lineID, err := uuid.Parse(c.Param("lineID"))
	if err != nil {
		response.BadRequest(c, "Invalid line id")
		return
	}

	cart, err := h.service.RemoveLine(c.Request.Context(), cartID, lineID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// ApplyCoupon handles POST /me/cart/coupons
func (h *Handler) ApplyCoupon(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		response.InternalServerError(c, "Cart could not be resolved")
		return
	}

	var req couponmodel.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cart, err := h.service.ApplyCoupon(c.Request.Context(), cartID, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// RemoveCoupon handles DELETE /me/cart/coupons/:code
func (h *Handler) RemoveCoupon(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		response.InternalServerError(c, "Cart could not be resolved")
		return
	}

	cart, err := h.service.RemoveCoupon(c.Request.Context(), cartID, c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// Checkout handles POST /me/cart/checkout
func (h *Handler) Checkout(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		response.InternalServerError(c, "Cart could not be resolved")
		return
	}

	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var userID *uuid.UUID
	if id, isAuth := middleware.GetAuthenticatedUserID(c); isAuth {
		userID = id
	}

	order, err := h.service.Checkout(c.Request.Context(), cartID, userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// respondError maps domain errors to HTTP responses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCartNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeCartNotFound, err.Error())
	case errors.Is(err, model.ErrCartEmpty):
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCartEmpty, err.Error())
	case errors.Is(err, model.ErrLineNotFound), errors.Is(err, model.ErrLineNotBelongToCart):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeLineNotFound, err.Error())
	case errors.Is(err, model.ErrFreeLineImmutable):
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodeFreeLineImmutable, err.Error())
	case errors.Is(err, productmodel.ErrProductNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, productmodel.ErrProductOutOfStock):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeOutOfStock, err.Error())
	case errors.Is(err, couponmodel.ErrCouponNotFound):
		response.ErrorResponse(c, http.StatusNotFound, string(couponmodel.ErrCodeCouponNotFound), err.Error())
	case errors.Is(err, couponmodel.ErrCouponExpired):
		response.ErrorResponse(c, http.StatusBadRequest, string(couponmodel.ErrCodeCouponExpired), err.Error())
	case errors.Is(err, couponmodel.ErrCouponInactive), errors.Is(err, couponmodel.ErrCouponNotBOGO):
		response.ErrorResponse(c, http.StatusBadRequest, string(couponmodel.ErrCodeCouponInactive), err.Error())
	case errors.Is(err, bogo.ErrCouponMisconfigured):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, model.ErrCodeCouponMisconfig, err.Error())
	case errors.Is(err, bogo.ErrCouponAlreadyApplied), errors.Is(err, bogo.ErrCouponNotApplied):
		response.Conflict(c, err.Error())
	case errors.Is(err, bogo.ErrRecursionLimit):
		response.InternalServerError(c, err.Error())
	default:
		response.BadRequest(c, err.Error())
	}
}
