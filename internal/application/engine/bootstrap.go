package engine

import (
	"context"
	"time"

	"github.com/turtacn/precinct-analytics/internal/config"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/database/postgres"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/database/redis"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/dataset"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/store"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// Bootstrap builds an Engine from application configuration: it opens the
// database when the dataset lives there, loads the dataset, opens the
// registry backend and registers metrics on collector.  A nil collector
// disables metrics.  Everything opened here is released by Engine.Close.
func Bootstrap(ctx context.Context, cfg *config.Config, collector prom.MetricsCollector, log logging.Logger) (eng *Engine, err error) {
	if cfg == nil {
		return nil, errors.InvalidParam("engine: configuration is required")
	}
	log = logging.OrNop(log)

	var closers []func() error
	defer func() {
		if err == nil {
			return
		}
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	metrics := prom.NewNoopMetrics()
	if collector != nil {
		metrics = prom.NewEngineMetrics(collector)
	}

	var db dataset.Querier
	if cfg.Dataset.Source == config.DatasetSourcePostgres {
		if cfg.Database.AutoMigrate {
			if err = postgres.RunMigrations(postgres.ConnString(cfg.Database)); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to apply migrations")
			}
		}
		pool, perr := postgres.NewConnectionPool(ctx, cfg.Database, log)
		if perr != nil {
			return nil, perr
		}
		closers = append(closers, func() error { postgres.Close(pool); return nil })
		db = pool
	}

	src, err := dataset.NewSource(cfg.Dataset, db, log)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	prom.RecordDatasetLoad(metrics, cfg.Dataset.Source, ds.Len(), time.Since(start))

	reg, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	eng, err = New(Config{
		Dataset:        ds,
		Store:          reg,
		StoreBackend:   cfg.Store.Backend,
		Metrics:        metrics,
		Logger:         log,
		FallbackWeight: cfg.Engine.FallbackWeight,
		SampleSize:     cfg.Engine.SampleSize,
		Canvass:        cfg.Canvass,
		Lookalike: LookalikeOptions{
			Algorithm:      cfg.Lookalike.Algorithm,
			MaxResults:     cfg.Lookalike.MaxResults,
			TopDifferences: cfg.Lookalike.TopDifferences,
			Workers:        cfg.Lookalike.Workers,
			ConditionLimit: cfg.Lookalike.ConditionLimit,
		},
	})
	if err != nil {
		_ = reg.Close()
		return nil, err
	}
	eng.closers = closers

	if _, lerr := eng.ListUniverses(ctx); lerr != nil {
		log.Warn("failed to count registered universes", logging.Err(lerr))
	}
	return eng, nil
}

func openStore(cfg *config.Config, log logging.Logger) (store.Store, error) {
	opts := store.Options{
		TTL:           cfg.Store.TTL,
		CleanupPeriod: cfg.Store.CleanupPeriod,
		KeyPrefix:     cfg.Store.KeyPrefix,
	}
	switch cfg.Store.Backend {
	case store.BackendRedis:
		client, err := redis.NewClient(&cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		s, err := store.NewRedisStore(client, opts, log)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return s, nil
	case store.BackendMemory, "":
		return store.NewMemoryStore(opts, log), nil
	default:
		return nil, errors.InvalidParam("unsupported store backend").WithDetail(cfg.Store.Backend)
	}
}

//Personal.AI order the ending
