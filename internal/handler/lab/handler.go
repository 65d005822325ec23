package lab

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/handler"
	"github.com/afyahms/hms-api/internal/middleware"
	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/service/lab"
)

type Handler struct {
	service *lab.Service
}

func NewHandler(service *lab.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	labs := r.Group("/lab")
	{
		labs.POST("/laboratories", h.CreateLaboratory)
		labs.GET("/laboratories", h.ListLaboratories)
		labs.POST("/tests", h.CreateTest)
		labs.GET("/tests", h.ListTests)

		labs.POST("/orders", h.OrderTests)
		labs.GET("/orders", h.ListOrders)
		labs.GET("/orders/:id", h.GetOrder)
		labs.POST("/orders/:id/collect", h.CollectSample)
		labs.POST("/orders/:id/receive", h.ReceiveSample)
		labs.POST("/orders/:id/reject", h.RejectSample)
		labs.POST("/orders/:id/analyze", h.StartAnalysis)
		labs.POST("/orders/:id/results/:resultId", h.EnterResult)
		labs.POST("/orders/:id/verify", h.Verify)
		labs.POST("/orders/:id/report", h.Report)
		labs.POST("/orders/:id/cancel", h.CancelOrder)
	}
}

func (h *Handler) CreateLaboratory(c *gin.Context) {
	var laboratory model.Laboratory
	if err := c.ShouldBindJSON(&laboratory); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.CreateLaboratory(c.Request.Context(), &laboratory); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(laboratory))
}

func (h *Handler) ListLaboratories(c *gin.Context) {
	laboratories, err := h.service.ListLaboratories(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(laboratories))
}

func (h *Handler) CreateTest(c *gin.Context) {
	var test model.LabTest
	if err := c.ShouldBindJSON(&test); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.CreateTest(c.Request.Context(), &test); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(test))
}

func (h *Handler) ListTests(c *gin.Context) {
	var category *model.TestCategory
	if v := c.Query("category"); v != "" {
		cat := model.TestCategory(v)
		category = &cat
	}

	tests, err := h.service.ListTests(c.Request.Context(), category)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tests))
}

func (h *Handler) OrderTests(c *gin.Context) {
	var req model.OrderLabTestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	order, err := h.service.OrderTests(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(order))
}

func (h *Handler) ListOrders(c *gin.Context) {
	var patientID *uuid.UUID
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		patientID = &id
	}
	var status *model.LabOrderStatus
	if v := c.Query("status"); v != "" {
		s := model.LabOrderStatus(v)
		status = &s
	}

	orders, err := h.service.ListOrders(c.Request.Context(), patientID, status)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(orders))
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) CollectSample(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}

	collectedBy, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	order, err := h.service.CollectSample(c.Request.Context(), id, collectedBy)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) ReceiveSample(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}

	var req struct {
		Condition string `json:"condition"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	order, err := h.service.ReceiveSample(c.Request.Context(), id, req.Condition)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) RejectSample(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	order, err := h.service.RejectSample(c.Request.Context(), id, req.Reason)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) StartAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}

	order, err := h.service.StartAnalysis(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) EnterResult(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}
	resultID, err := uuid.Parse(c.Param("resultId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid result ID"))
		return
	}

	var req model.EnterResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	order, err := h.service.EnterResult(c.Request.Context(), orderID, resultID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) Verify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}

	verifiedBy, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	order, err := h.service.Verify(c.Request.Context(), id, verifiedBy)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}

	order, err := h.service.Report(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid lab order ID"))
		return
	}

	order, err := h.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}
