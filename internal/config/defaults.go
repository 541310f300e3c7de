package config

import (
	"runtime"
	"time"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/application/lookalike"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/database/redis"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitBurst  = 20

	DefaultDatasetSource = DatasetSourceFile
	DefaultDatasetPath   = "data/precincts.yaml"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "precincts"
	DefaultDBSSLMode  = "disable"
	DefaultDBMaxConns = 10

	DefaultStoreBackend = "memory"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "precinct"
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with its default.  Values
// already set are left unchanged so explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimitRPS > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}

	// ── Dataset ───────────────────────────────────────────────────────────────
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = DefaultDatasetSource
	}
	if cfg.Dataset.Source == DatasetSourceFile && cfg.Dataset.Path == "" {
		cfg.Dataset.Path = DefaultDatasetPath
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = redis.ModeStandalone
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}

	// ── Store ─────────────────────────────────────────────────────────────────
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.KeyPrefix == "" {
		cfg.Store.KeyPrefix = redis.DefaultPrefix
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	if cfg.Engine.FallbackWeight == 0 {
		cfg.Engine.FallbackWeight = precinct.DefaultFallbackWeight
	}
	if cfg.Engine.SampleSize == 0 {
		cfg.Engine.SampleSize = precinct.DefaultSampleSize
	}

	// ── Canvass ───────────────────────────────────────────────────────────────
	def := canvassing.DefaultConfig()
	if cfg.Canvass.TargetDoorsPerTurf == 0 {
		cfg.Canvass.TargetDoorsPerTurf = def.TargetDoorsPerTurf
	}
	if cfg.Canvass.TargetDoorsPerHour == 0 {
		cfg.Canvass.TargetDoorsPerHour = def.TargetDoorsPerHour
	}
	if cfg.Canvass.TargetContactRate == 0 {
		cfg.Canvass.TargetContactRate = def.TargetContactRate
	}

	// ── Lookalike ─────────────────────────────────────────────────────────────
	if cfg.Lookalike.Algorithm == "" {
		cfg.Lookalike.Algorithm = string(lookalike.AlgorithmEuclidean)
	}
	if cfg.Lookalike.MaxResults == 0 {
		cfg.Lookalike.MaxResults = lookalike.DefaultMaxResults
	}
	if cfg.Lookalike.TopDifferences == 0 {
		cfg.Lookalike.TopDifferences = lookalike.DefaultTopDifferences
	}
	if cfg.Lookalike.Workers == 0 {
		cfg.Lookalike.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Lookalike.ConditionLimit == 0 {
		cfg.Lookalike.ConditionLimit = lookalike.DefaultConditionLimit
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
