package admission

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/handler"
	"github.com/afyahms/hms-api/internal/middleware"
	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/service/admission"
)

type Handler struct {
	service *admission.Service
}

func NewHandler(service *admission.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admissions := r.Group("/admissions")
	{
		admissions.POST("", h.AdmitPatient)
		admissions.GET("", h.ListAdmissions)
		admissions.GET("/:id", h.GetAdmission)
		admissions.POST("/:id/discharge", h.Discharge)
		admissions.POST("/:id/transfer", h.TransferBed)
		admissions.GET("/:id/transfers", h.ListTransfers)
	}
}

func (h *Handler) AdmitPatient(c *gin.Context) {
	var req model.AdmitPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	admittedBy, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	adm, err := h.service.Admit(c.Request.Context(), &req, admittedBy)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(adm))
}

func (h *Handler) ListAdmissions(c *gin.Context) {
	filters := &model.AdmissionFilters{
		Status: model.AdmissionStatus(c.Query("status")),
	}
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		filters.PatientID = id
	}
	if v := c.Query("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
			return
		}
		filters.DoctorID = id
	}
	if v := c.Query("limit"); v != "" {
		filters.Limit, _ = strconv.Atoi(v)
	}

	admissions, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(admissions))
}

func (h *Handler) GetAdmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid admission ID"))
		return
	}

	adm, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) Discharge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid admission ID"))
		return
	}

	var req model.DischargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dischargedBy, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	adm, err := h.service.Discharge(c.Request.Context(), id, &req, dischargedBy)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) TransferBed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid admission ID"))
		return
	}

	var req model.TransferBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	adm, err := h.service.TransferBed(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) ListTransfers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid admission ID"))
		return
	}

	transfers, err := h.service.ListTransfers(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(transfers))
}
