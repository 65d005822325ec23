package morgue

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/afyahms/hms-api/internal/handler"
	"github.com/afyahms/hms-api/internal/middleware"
	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/service/morgue"
)

type Handler struct {
	service          *morgue.Service
	dailyStorageRate float64
}

func NewHandler(service *morgue.Service, dailyStorageRate float64) *Handler {
	return &Handler{service: service, dailyStorageRate: dailyStorageRate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	mg := r.Group("/morgue")
	{
		mg.POST("/departments", h.CreateDepartment)
		mg.GET("/departments", h.ListDepartments)
		mg.POST("/departments/:id/compartments", h.CreateCompartment)
		mg.GET("/departments/:id/compartments", h.ListCompartments)

		mg.POST("/admissions", h.AdmitBody)
		mg.GET("/admissions", h.ListAdmissions)
		mg.GET("/admissions/:id", h.GetAdmission)
		mg.POST("/admissions/:id/autopsy/start", h.StartAutopsy)
		mg.POST("/admissions/:id/autopsy/complete", h.CompleteAutopsy)
		mg.POST("/admissions/:id/certificate", h.IssueDeathCertificate)
		mg.POST("/admissions/:id/release", h.ReleaseBody)
	}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var dept model.MorgueDepartment
	if err := c.ShouldBindJSON(&dept); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.CreateDepartment(c.Request.Context(), &dept); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(dept))
}

func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(departments))
}

func (h *Handler) CreateCompartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid morgue department ID"))
		return
	}

	var compartment model.MorgueCompartment
	if err := c.ShouldBindJSON(&compartment); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	compartment.MorgueID = id

	if err := h.service.CreateCompartment(c.Request.Context(), &compartment); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(compartment))
}

func (h *Handler) ListCompartments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid morgue department ID"))
		return
	}

	compartments, err := h.service.ListCompartments(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(compartments))
}

func (h *Handler) AdmitBody(c *gin.Context) {
	var req model.MorgueAdmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	admittedBy, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	adm, err := h.service.AdmitBody(c.Request.Context(), &req, admittedBy)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(adm))
}

func (h *Handler) ListAdmissions(c *gin.Context) {
	var departmentID *uuid.UUID
	if v := c.Query("department_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid morgue department ID"))
			return
		}
		departmentID = &id
	}
	var status *model.BodyStatus
	if v := c.Query("status"); v != "" {
		s := model.BodyStatus(v)
		status = &s
	}

	admissions, err := h.service.ListAdmissions(c.Request.Context(), departmentID, status)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(admissions))
}

func (h *Handler) GetAdmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid morgue admission ID"))
		return
	}

	adm, err := h.service.GetAdmission(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) StartAutopsy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid morgue admission ID"))
		return
	}

	adm, err := h.service.StartAutopsy(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) CompleteAutopsy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid morgue admission ID"))
		return
	}

	var req struct {
		Report string `json:"report" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	adm, err := h.service.CompleteAutopsy(c.Request.Context(), id, req.Report)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) IssueDeathCertificate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid morgue admission ID"))
		return
	}

	var req struct {
		CertificateNumber string `json:"certificate_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	adm, err := h.service.IssueDeathCertificate(c.Request.Context(), id, req.CertificateNumber)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) ReleaseBody(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid morgue admission ID"))
		return
	}

	var req model.MorgueReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	adm, err := h.service.ReleaseBody(c.Request.Context(), id, &req, h.dailyStorageRate)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}
