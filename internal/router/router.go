package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/afyahms/hms-api/internal/middleware"
)

// Handler is anything that can mount its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AuthHandler additionally mounts routes that require a valid token.
type AuthHandler interface {
	Handler
	RegisterProtectedRoutes(*gin.RouterGroup)
}

// Handlers collects every route provider the router mounts.
type Handlers struct {
	Health      Handler
	Auth        AuthHandler
	Patient     Handler
	Staff       Handler
	Department  Handler
	Ward        Handler
	Admission   Handler
	Appointment Handler
	Morgue      Handler
	Pharmacy    Handler
	Lab         Handler
	Billing     Handler
	Report      Handler
}

type Config struct {
	RateLimitEnabled bool
	RateLimit        middleware.RateLimiterConfig
	CORS             middleware.CORSConfig
	RequestTimeout   time.Duration
	StatsCacheTTL    time.Duration
	MetricsNamespace string
}

type Router struct {
	engine     *gin.Engine
	auth       *middleware.AuthMiddleware
	handlers   Handlers
	statsCache *middleware.StatsCache
	metrics    *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	middleware.RegisterValidators()

	engine := gin.New()

	if config.RequestTimeout <= 0 {
		config.RequestTimeout = middleware.DefaultTimeoutConfig().Duration
	}
	if config.StatsCacheTTL <= 0 {
		config.StatsCacheTTL = time.Minute
	}

	r := &Router{
		engine:     engine,
		auth:       auth,
		handlers:   handlers,
		statsCache: middleware.NewStatsCache(config.StatsCacheTTL),
		metrics:    initRouterMetrics(config.MetricsNamespace),
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
	)

	engine.Use(middleware.CORS(config.CORS))

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(config.RateLimit)
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)

	// Public routes
	r.handlers.Auth.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.handlers.Auth.RegisterProtectedRoutes(rg)
	r.handlers.Patient.RegisterRoutes(rg)
	r.handlers.Staff.RegisterRoutes(rg)
	r.handlers.Department.RegisterRoutes(rg)
	r.handlers.Ward.RegisterRoutes(rg)
	r.handlers.Admission.RegisterRoutes(rg)
	r.handlers.Appointment.RegisterRoutes(rg)
	r.handlers.Morgue.RegisterRoutes(rg)
	r.handlers.Pharmacy.RegisterRoutes(rg)
	r.handlers.Lab.RegisterRoutes(rg)
	r.handlers.Billing.RegisterRoutes(rg)

	// Dashboard aggregates are admin-only. The cache middleware only
	// sets client freshness headers; every request recomputes.
	reports := rg.Group("")
	reports.Use(
		r.auth.RequireRole("admin"),
		r.statsCache.Cache(),
	)
	r.handlers.Report.RegisterRoutes(reports)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(namespace string) *routerMetrics {
	if namespace == "" {
		namespace = "hms"
	}
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_errors_total",
				Help:      "Total number of HTTP error responses",
			},
			[]string{"method", "path"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path).Inc()
		}
	}
}
