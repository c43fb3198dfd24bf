package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bogo-backend/internal/domains/product/model"
	"bogo-backend/internal/domains/product/service"
	"bogo-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for products
type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates handler instance
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListProducts handles GET /products
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	products, total, err := h.service.ListProducts(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Page:  page,
		Limit: pageSize,
		Total: total,
	})
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, product)
}

// ListVariants handles GET /products/:id/variants
func (h *Handler) ListVariants(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	variants, err := h.service.ListVariants(c.Request.Context(), id)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, variants)
}

// CreateProduct handles POST /admin/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var product model.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if product.Name == "" {
		response.BadRequest(c, "Product name is required")
		return
	}

	if err := h.service.CreateProduct(c.Request.Context(), &product); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, product)
}

// UpdateStock handles PATCH /admin/products/:id/stock
func (h *Handler) UpdateStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	var req struct {
		StockQuantity *int `json:"stock_quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.UpdateStock(c.Request.Context(), id, req.StockQuantity); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
