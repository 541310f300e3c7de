// API server entry point for the precinct analytics engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/turtacn/precinct-analytics/internal/application/engine"
	"github.com/turtacn/precinct-analytics/internal/config"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/precinct-analytics/internal/interfaces/http"
)

// Build-time variables injected via ldflags.
var version = "dev"

const bootstrapTimeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty reads PRECINCT_* environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	watch := flag.Bool("watch", false, "log configuration file changes")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	if err := run(*configPath, *port, *watch); err != nil {
		logging.Default().Error("apiserver exited", logging.Err(err))
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int, watch bool) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting precinct analytics API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.String("dataset_source", cfg.Dataset.Source),
		logging.String("store_backend", cfg.Store.Backend),
	)

	var collector prom.MetricsCollector
	if cfg.Metrics.Enabled {
		collector, err = prom.NewMetricsCollector(prom.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		}, logger)
		if err != nil {
			return err
		}
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	eng, err := engine.Bootstrap(bootCtx, cfg, collector, logger)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error("engine close failed", logging.Err(err))
		}
	}()

	if watch && configPath != "" {
		err := config.Watch(configPath, func(next *config.Config) {
			logger.Info("configuration file changed; restart to apply",
				logging.String("log_level", next.Log.Level),
				logging.String("dataset_source", next.Dataset.Source),
			)
		}, func(err error) {
			logger.Warn("configuration reload rejected", logging.Err(err))
		})
		if err != nil {
			return err
		}
	}

	srv := httpserver.NewServer(eng, httpserver.ServerOptions{
		Config:    cfg.Server,
		Metrics:   cfg.Metrics,
		Collector: collector,
		Version:   version,
		Logger:    logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
		return err
	}
	return <-errCh
}

//Personal.AI order the ending
