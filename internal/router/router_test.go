package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/middleware"
	"github.com/afyahms/hms-api/pkg/auth"
)

type stubHandler struct{}

func (stubHandler) RegisterRoutes(*gin.RouterGroup) {}

type stubAuthHandler struct{ stubHandler }

func (stubAuthHandler) RegisterProtectedRoutes(*gin.RouterGroup) {}

type stubReportHandler struct{}

func (stubReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total_patients": 0})
	})
}

func TestReportRoutesAdminOnly(t *testing.T) {
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	})
	handlers := Handlers{
		Health:      stubHandler{},
		Auth:        stubAuthHandler{},
		Patient:     stubHandler{},
		Staff:       stubHandler{},
		Department:  stubHandler{},
		Ward:        stubHandler{},
		Admission:   stubHandler{},
		Appointment: stubHandler{},
		Morgue:      stubHandler{},
		Pharmacy:    stubHandler{},
		Lab:         stubHandler{},
		Billing:     stubHandler{},
		Report:      stubReportHandler{},
	}
	router := NewRouter(middleware.NewAuthMiddleware(jwtSvc), handlers, Config{})
	router.Setup()

	cases := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"medical_superintendent", http.StatusForbidden},
		{"medical_officer", http.StatusForbidden},
	}
	for _, tc := range cases {
		token, _, err := jwtSvc.GenerateAccessToken(uuid.New(), "staff", tc.role)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.Engine().ServeHTTP(rec, req)

		assert.Equal(t, tc.want, rec.Code, tc.role)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/dashboard", nil)
	rec := httptest.NewRecorder()
	router.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
