package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// StatsCache sets client cache headers on report reads. The dashboard
// aggregations themselves always re-run; only the caller is told how
// long the answer stays fresh.
type StatsCache struct {
	maxAge int
}

func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{maxAge: int(ttl.Seconds())}
}

func (sc *StatsCache) Cache() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		directives := []string{
			"private",
			"max-age=" + strconv.Itoa(sc.maxAge),
			"must-revalidate",
		}
		c.Header("Cache-Control", strings.Join(directives, ", "))
		c.Header("Vary", "Authorization")
		c.Next()
	}
}
