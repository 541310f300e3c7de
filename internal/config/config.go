// Package config defines the configuration structures of the precinct
// analytics engine.  No I/O lives in this file; loading is in loader.go and
// defaults in defaults.go.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/application/lookalike"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/database/redis"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.  "*"
	// allows any origin; empty disables CORS headers.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// RateLimitRPS is the sustained per-client request rate.  Zero disables
	// rate limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Dataset source kinds.
const (
	DatasetSourceFile     = "file"
	DatasetSourcePostgres = "postgres"
)

// DatasetConfig selects where the precinct dataset is loaded from.
type DatasetConfig struct {
	Source string `mapstructure:"source"` // "file" | "postgres"
	Path   string `mapstructure:"path"`   // YAML or JSON file for the file source
}

// DatabaseConfig holds PostgreSQL connection parameters for the postgres
// dataset source.  DSN, when set, overrides the discrete fields.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// StoreConfig selects the universe/segment registry backend.
type StoreConfig struct {
	Backend       string        `mapstructure:"backend"` // "memory" | "redis"
	TTL           time.Duration `mapstructure:"ttl"`
	CleanupPeriod time.Duration `mapstructure:"cleanup_period"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

// EngineConfig holds aggregation tunables shared by every component.
type EngineConfig struct {
	FallbackWeight float64 `mapstructure:"fallback_weight"`
	SampleSize     int     `mapstructure:"sample_size"`
}

// LookalikeConfig holds matcher defaults.
type LookalikeConfig struct {
	Algorithm      string  `mapstructure:"algorithm"`
	MaxResults     int     `mapstructure:"max_results"`
	TopDifferences int     `mapstructure:"top_differences"`
	Workers        int     `mapstructure:"workers"`
	ConditionLimit float64 `mapstructure:"condition_limit"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Path                 string `mapstructure:"path"`
	Namespace            string `mapstructure:"namespace"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Log       logging.LogConfig `mapstructure:"log"`
	Dataset   DatasetConfig     `mapstructure:"dataset"`
	Database  DatabaseConfig    `mapstructure:"database"`
	Redis     redis.RedisConfig `mapstructure:"redis"`
	Store     StoreConfig       `mapstructure:"store"`
	Engine    EngineConfig      `mapstructure:"engine"`
	Canvass   canvassing.Config `mapstructure:"canvass"`
	Lookalike LookalikeConfig   `mapstructure:"lookalike"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("config: server.rate_limit_rps must not be negative")
	}

	// Dataset
	switch c.Dataset.Source {
	case DatasetSourceFile:
		if c.Dataset.Path == "" {
			return fmt.Errorf("config: dataset.path is required for the file source")
		}
	case DatasetSourcePostgres:
		if c.Database.DSN == "" {
			if c.Database.Host == "" {
				return fmt.Errorf("config: database.host is required for the postgres source")
			}
			if c.Database.DBName == "" {
				return fmt.Errorf("config: database.db_name is required for the postgres source")
			}
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
		}
	default:
		return fmt.Errorf("config: dataset.source %q is invalid; expected file|postgres", c.Dataset.Source)
	}

	// Store
	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" && len(c.Redis.ClusterAddrs) == 0 && len(c.Redis.SentinelAddrs) == 0 {
			return fmt.Errorf("config: redis.addr is required for the redis store")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	default:
		return fmt.Errorf("config: store.backend %q is invalid; expected memory|redis", c.Store.Backend)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("config: store.ttl must not be negative")
	}

	// Engine
	if c.Engine.FallbackWeight <= 0 {
		return fmt.Errorf("config: engine.fallback_weight must be > 0, got %g", c.Engine.FallbackWeight)
	}

	// Canvass
	if c.Canvass.TargetContactRate <= 0 || c.Canvass.TargetContactRate > 1 {
		return fmt.Errorf("config: canvass.target_contact_rate must be in (0, 1], got %g", c.Canvass.TargetContactRate)
	}

	// Lookalike
	if _, err := lookalike.ParseAlgorithm(c.Lookalike.Algorithm); err != nil {
		return fmt.Errorf("config: lookalike.algorithm: %w", err)
	}
	if c.Lookalike.Workers < 1 {
		return fmt.Errorf("config: lookalike.workers must be ≥ 1, got %d", c.Lookalike.Workers)
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Metrics
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("config: metrics.path %q must start with /", c.Metrics.Path)
	}

	return nil
}

//Personal.AI order the ending
