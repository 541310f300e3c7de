// Package http exposes the analytics engine as a JSON REST API built on gin.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/precinct-analytics/internal/interfaces/http/handlers"
	"github.com/turtacn/precinct-analytics/internal/interfaces/http/middleware"
)

// APIPrefix is the path prefix of every resource route.
const APIPrefix = "/v1"

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered; nil middleware
// is skipped.
type RouterConfig struct {
	// Handlers
	EntityHandler    *handlers.EntityHandler
	UniverseHandler  *handlers.UniverseHandler
	LookalikeHandler *handlers.LookalikeHandler
	ReportHandler    *handlers.ReportHandler
	SegmentHandler   *handlers.SegmentHandler
	HealthHandler    *handlers.HealthHandler

	// Middleware
	CORS      *middleware.CORSConfig
	RateLimit *middleware.RateLimitConfig
	Logging   middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prom.EngineMetrics
	MetricsCollector prom.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the route tree.  Middleware order is recovery,
// request id, metrics, logging, CORS, rate limit.
func NewRouter(cfg RouterConfig) http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.RateLimit != nil {
		r.Use(middleware.RateLimit(*cfg.RateLimit))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group(APIPrefix)
	registerEntityRoutes(api, cfg.EntityHandler)
	registerUniverseRoutes(api, cfg.UniverseHandler)
	registerLookalikeRoutes(api, cfg.LookalikeHandler)
	registerReportRoutes(api, cfg.ReportHandler)
	registerSegmentRoutes(api, cfg.SegmentHandler)

	return r
}

func registerEntityRoutes(r *gin.RouterGroup, h *handlers.EntityHandler) {
	if h == nil {
		return
	}
	r.GET("/entities/:type/:id", h.Get)
	r.POST("/comparisons", h.Compare)
}

func registerUniverseRoutes(r *gin.RouterGroup, h *handlers.UniverseHandler) {
	if h == nil {
		return
	}
	u := r.Group("/universes")
	u.POST("", h.Create)
	u.GET("", h.List)
	u.GET("/:id", h.Get)
	u.DELETE("/:id", h.Delete)
	u.POST("/:id/sort", h.Sort)
	u.GET("/:id/staffing", h.Staffing)
	u.POST("/:id/turfs", h.Turfs)
	u.GET("/:id/summary", h.Summary)

	cv := r.Group("/canvass")
	cv.GET("/defaults", h.Defaults)
	cv.GET("/route", h.Route)
	cv.GET("/metrics", h.Metrics)
}

func registerLookalikeRoutes(r *gin.RouterGroup, h *handlers.LookalikeHandler) {
	if h == nil {
		return
	}
	r.POST("/lookalikes", h.Find)
}

func registerReportRoutes(r *gin.RouterGroup, h *handlers.ReportHandler) {
	if h == nil {
		return
	}
	r.POST("/reports/profile", h.Profile)
	r.POST("/reports/render", h.Render)
}

func registerSegmentRoutes(r *gin.RouterGroup, h *handlers.SegmentHandler) {
	if h == nil {
		return
	}
	s := r.Group("/segments")
	s.POST("", h.Save)
	s.GET("", h.List)
	s.GET("/:id", h.Get)
	s.DELETE("/:id", h.Delete)
}

//Personal.AI order the ending
