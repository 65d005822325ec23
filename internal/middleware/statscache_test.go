package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCacheAlwaysRecomputes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	invocations := 0
	engine.GET("/reports/dashboard", NewStatsCache(time.Minute).Cache(), func(c *gin.Context) {
		invocations++
		c.JSON(http.StatusOK, gin.H{"total_patients": invocations})
	})

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil))
	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil))

	require.Equal(t, 2, invocations, "every request runs the aggregation")
	assert.JSONEq(t, `{"total_patients": 1}`, first.Body.String())
	assert.JSONEq(t, `{"total_patients": 2}`, second.Body.String())

	assert.Equal(t, "private, max-age=60, must-revalidate", second.Header().Get("Cache-Control"))
	assert.Equal(t, "Authorization", second.Header().Get("Vary"))
}

func TestStatsCacheNoStoreOnWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/reports/refresh", NewStatsCache(time.Minute).Cache(), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports/refresh", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
