package handler

import (
	"fmt"
	"net/http"
	"time"

	"bogo-backend/internal/domains/usage/model"
	"bogo-backend/internal/domains/usage/service"
	"bogo-backend/internal/shared/response"
	"bogo-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler handles admin HTTP requests for usage reports
type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates handler instance
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListRecords handles GET /admin/reports/usage
func (h *Handler) ListRecords(c *gin.Context) {
	var filter model.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	records, total, err := h.service.ListRecords(c.Request.Context(), &filter)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items := make([]*model.UsageRecordResponse, 0, len(records))
	for i := range records {
		items = append(items, records[i].ToResponse())
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  filter.Page,
		Limit: filter.PageSize,
		Total: total,
	})
}

// Summary handles GET /admin/reports/usage/summary
func (h *Handler) Summary(c *gin.Context) {
	var filter model.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	summaries, err := h.service.SummarizeByCoupon(c.Request.Context(), &filter)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, summaries)
}

// Export handles GET /admin/reports/usage/export
func (h *Handler) Export(c *gin.Context) {
	var filter model.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	f, err := h.service.ExportReportToExcel(c.Request.Context(), &filter)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	filename := fmt.Sprintf("coupon-usage-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(c.Writer); err != nil {
		logger.Error("failed to stream usage report", err)
	}
}
