// Package engine is the composition root of the analytics engine.  An Engine
// owns one immutable dataset, the services built over it and the
// universe/segment registry; it is constructed explicitly and passed to the
// CLI and HTTP surfaces.  There is no process-wide instance.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/application/comparison"
	"github.com/turtacn/precinct-analytics/internal/application/lookalike"
	"github.com/turtacn/precinct-analytics/internal/application/reporting"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/store"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// LookalikeOptions tunes the lookalike matcher.
type LookalikeOptions struct {
	Algorithm      string
	MaxResults     int
	TopDifferences int
	Workers        int
	ConditionLimit float64
}

// Config holds everything an Engine is built from.  Dataset is required; the
// rest takes defaults.
type Config struct {
	Dataset *precinct.Dataset

	// Store backs the universe and segment registry.  Nil selects a
	// non-expiring in-memory store.
	Store        store.Store
	StoreBackend string

	Metrics *prom.EngineMetrics
	Logger  logging.Logger

	FallbackWeight float64
	SampleSize     int
	Canvass        canvassing.Config
	Lookalike      LookalikeOptions

	Clock func() time.Time
	NewID func() string
}

// Engine exposes every analytics operation.  It is safe for concurrent use;
// universes handed out are copies, so callers never share mutable state.
type Engine struct {
	ds         *precinct.Dataset
	comparison *comparison.Service
	canvass    *canvassing.Service
	matcher    *lookalike.Matcher
	reports    *reporting.Aggregator
	renderer   *reporting.Renderer

	store   store.Store
	backend string
	metrics *prom.EngineMetrics
	logger  logging.Logger
	newID   func() string
	closers []func() error
}

// New wires the services over cfg.Dataset.
func New(cfg Config) (*Engine, error) {
	if cfg.Dataset == nil {
		return nil, errors.InvalidParam("engine: dataset is required")
	}
	log := logging.OrNop(cfg.Logger)

	e := &Engine{
		ds:      cfg.Dataset,
		store:   cfg.Store,
		backend: cfg.StoreBackend,
		metrics: cfg.Metrics,
		logger:  log.Named("engine"),
		newID:   cfg.NewID,
	}
	if e.store == nil {
		e.store = store.NewMemoryStore(store.Options{}, log)
		e.backend = store.BackendMemory
	}
	if e.backend == "" {
		e.backend = store.BackendMemory
	}
	if e.metrics == nil {
		e.metrics = prom.NewNoopMetrics()
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}

	var err error
	e.comparison, err = comparison.NewService(comparison.ServiceConfig{
		Dataset:        cfg.Dataset,
		Logger:         log.Named("comparison"),
		FallbackWeight: cfg.FallbackWeight,
		SampleSize:     cfg.SampleSize,
		Clock:          cfg.Clock,
	})
	if err != nil {
		return nil, err
	}
	e.canvass, err = canvassing.NewService(canvassing.ServiceConfig{
		Dataset:  cfg.Dataset,
		Logger:   log.Named("canvassing"),
		Defaults: cfg.Canvass,
		Clock:    cfg.Clock,
		NewID:    cfg.NewID,
	})
	if err != nil {
		return nil, err
	}

	e.matcher, err = lookalike.NewMatcher(lookalike.MatcherConfig{
		Dataset:           cfg.Dataset,
		Segments:          e.store,
		Logger:            log.Named("lookalike"),
		DefaultAlgorithm:  lookalike.Algorithm(cfg.Lookalike.Algorithm),
		DefaultMaxResults: cfg.Lookalike.MaxResults,
		TopDifferences:    cfg.Lookalike.TopDifferences,
		Workers:           cfg.Lookalike.Workers,
		ConditionLimit:    cfg.Lookalike.ConditionLimit,
	})
	if err != nil {
		return nil, err
	}
	e.reports, err = reporting.NewAggregator(reporting.AggregatorConfig{
		Dataset:        cfg.Dataset,
		Logger:         log.Named("reporting"),
		FallbackWeight: cfg.FallbackWeight,
	})
	if err != nil {
		return nil, err
	}
	e.renderer = reporting.NewRenderer(reporting.RendererConfig{Logger: log.Named("reporting"), Clock: cfg.Clock})

	e.logger.Info("engine ready",
		logging.Int("precincts", cfg.Dataset.Len()),
		logging.Int("jurisdictions", len(cfg.Dataset.Jurisdictions())),
		logging.String("store", e.backend),
	)
	return e, nil
}

// Dataset returns the immutable dataset the engine was built over.
func (e *Engine) Dataset() *precinct.Dataset { return e.ds }

// Metrics returns the metrics the engine records into.
func (e *Engine) Metrics() *prom.EngineMetrics { return e.metrics }

// Ping checks the registry backend.
func (e *Engine) Ping(ctx context.Context) error { return e.store.Ping(ctx) }

// Close releases the registry and anything Bootstrap opened.  The first error
// is returned; every closer still runs.
func (e *Engine) Close() error {
	var first error
	if err := e.store.Close(); err != nil {
		first = err
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}

// observe records one operation and returns err unchanged.
func (e *Engine) observe(op string, start time.Time, err error) error {
	prom.RecordOperation(e.metrics, op, time.Since(start), err)
	if err != nil {
		e.logger.Debug("operation failed", logging.String("operation", op), logging.Err(err))
	}
	return err
}

//Personal.AI order the ending
