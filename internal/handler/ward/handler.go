package ward

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/handler"
	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/service/ward"
)

type Handler struct {
	service *ward.Service
}

func NewHandler(service *ward.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	wards := r.Group("/wards")
	{
		wards.POST("", h.CreateWard)
		wards.GET("", h.ListWards)
		wards.GET("/:id", h.GetWard)
		wards.PUT("/:id", h.UpdateWard)

		wards.POST("/:id/beds", h.CreateBed)
		wards.GET("/:id/beds", h.ListBeds)
		wards.GET("/:id/beds/available", h.ListAvailableBeds)
	}
}

func (h *Handler) CreateWard(c *gin.Context) {
	var req model.CreateWardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.CreateWard(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListWards(c *gin.Context) {
	wards, err := h.service.ListWards(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(wards))
}

func (h *Handler) GetWard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid ward ID"))
		return
	}

	found, err := h.service.GetWard(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdateWard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid ward ID"))
		return
	}

	var w model.Ward
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	w.ID = id

	if err := h.service.UpdateWard(c.Request.Context(), &w); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(w))
}

func (h *Handler) CreateBed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid ward ID"))
		return
	}

	var req model.CreateBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	req.WardID = id

	bed, err := h.service.CreateBed(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(bed))
}

func (h *Handler) ListBeds(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid ward ID"))
		return
	}

	beds, err := h.service.ListBeds(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(beds))
}

func (h *Handler) ListAvailableBeds(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid ward ID"))
		return
	}

	beds, err := h.service.ListAvailableBeds(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(beds))
}
