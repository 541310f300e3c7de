package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/precinct-analytics/internal/application/engine"
	"github.com/turtacn/precinct-analytics/internal/config"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/precinct-analytics/internal/interfaces/http/handlers"
	"github.com/turtacn/precinct-analytics/internal/interfaces/http/middleware"
)

// Server is the HTTP front of the engine.
type Server struct {
	srv             *http.Server
	router          http.Handler
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// ServerOptions carries everything NewServer needs beyond the engine.
type ServerOptions struct {
	Config    config.ServerConfig
	Metrics   config.MetricsConfig
	Collector prom.MetricsCollector
	Version   string
	Logger    logging.Logger
}

// NewServer wires every handler to eng and builds the route tree.
func NewServer(eng *engine.Engine, opts ServerOptions) *Server {
	log := logging.OrNop(opts.Logger).Named("http")

	switch opts.Config.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Config.Mode)
	}

	rc := RouterConfig{
		EntityHandler:    handlers.NewEntityHandler(eng),
		UniverseHandler:  handlers.NewUniverseHandler(eng),
		LookalikeHandler: handlers.NewLookalikeHandler(eng),
		ReportHandler:    handlers.NewReportHandler(eng),
		SegmentHandler:   handlers.NewSegmentHandler(eng),
		HealthHandler:    handlers.NewHealthHandler(opts.Version, handlers.CheckFunc("store", eng.Ping)),
		Logging:          middleware.DefaultLoggingConfig(),
		Logger:           log,
		Metrics:          eng.Metrics(),
	}
	if opts.Metrics.Enabled {
		rc.MetricsCollector = opts.Collector
		rc.MetricsPath = opts.Metrics.Path
	}
	if len(opts.Config.CORSAllowedOrigins) > 0 {
		c := middleware.DefaultCORSConfig(opts.Config.CORSAllowedOrigins...)
		rc.CORS = &c
	}
	if opts.Config.RateLimitRPS > 0 {
		rl := middleware.DefaultRateLimitConfig(opts.Config.RateLimitRPS, opts.Config.RateLimitBurst)
		rc.RateLimit = &rl
	}

	router := NewRouter(rc)
	return &Server{
		router:          router,
		logger:          log,
		shutdownTimeout: opts.Config.ShutdownTimeout,
		srv: &http.Server{
			Addr:         opts.Config.Addr(),
			Handler:      router,
			ReadTimeout:  opts.Config.ReadTimeout,
			WriteTimeout: opts.Config.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves until Stop is called.  It returns nil after a clean shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Stop is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler {
	return s.router
}

//Personal.AI order the ending
