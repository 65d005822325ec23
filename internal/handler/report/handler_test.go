package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afyahms/hms-api/internal/model"
	"github.com/afyahms/hms-api/internal/repository"
	"github.com/afyahms/hms-api/internal/service/report"
)

// chartRepo implements only the chart queries; anything else panics,
// which is what we want in these tests.
type chartRepo struct {
	repository.ReportRepository
}

func (chartRepo) MonthlyAdmissions(ctx context.Context, months int) ([]*model.MonthlyCount, error) {
	return []*model.MonthlyCount{
		{Month: "Jul 2026", Count: 23},
		{Month: "Aug 2026", Count: 31},
	}, nil
}

func (chartRepo) DepartmentAdmissions(ctx context.Context) ([]*model.DepartmentAdmissions, error) {
	return []*model.DepartmentAdmissions{{Name: "Maternity", PatientCount: 12}}, nil
}

func (chartRepo) WardOccupancy(ctx context.Context) ([]*model.WardOccupancy, error) {
	return []*model.WardOccupancy{{Name: "Ward A", BedCapacity: 20, CurrentOccupancy: 14}}, nil
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewHandler(report.NewService(chartRepo{}, nil, nil))
	handler.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestChartEndpoint(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/charts/monthly_admissions", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []*model.MonthlyCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Jul 2026", body.Data[0].Month)
	assert.Equal(t, 31, body.Data[1].Count)
}

func TestChartEndpointUnknownKind(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/charts/bogus", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Invalid chart type"}`, w.Body.String())
}
