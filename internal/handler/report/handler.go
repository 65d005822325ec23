package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afyahms/hms-api/internal/handler"
	"github.com/afyahms/hms-api/internal/service/report"
	apperrors "github.com/afyahms/hms-api/pkg/errors"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/billing", h.BillingSummary)
		reports.GET("/charts/:type", h.Chart)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) BillingSummary(c *gin.Context) {
	summary, err := h.service.BillingSummary(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}

// Chart serves one dashboard data series. The payload is kept as a bare
// {"data": ...} object for the charting frontend; unknown kinds are a
// client error in the same shape.
func (h *Handler) Chart(c *gin.Context) {
	data, err := h.service.Chart(c.Request.Context(), c.Param("type"))
	if err != nil {
		if appErr, ok := apperrors.As(err); ok && appErr.Code == apperrors.ErrBadRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chart type"})
			return
		}
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}
