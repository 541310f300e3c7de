package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/precinct-analytics/internal/config"
)

func TestConfig_Validate_Defaults(t *testing.T) {
	t.Parallel()
	assert.NoError(t, config.Default().Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"port out of range", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad server mode", func(c *config.Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"negative rate limit", func(c *config.Config) { c.Server.RateLimitRPS = -1 }, "server.rate_limit_rps"},
		{"unknown dataset source", func(c *config.Config) { c.Dataset.Source = "s3" }, "dataset.source"},
		{"file source without path", func(c *config.Config) { c.Dataset.Path = "" }, "dataset.path"},
		{"postgres without host", func(c *config.Config) {
			c.Dataset.Source = config.DatasetSourcePostgres
			c.Database.Host = ""
		}, "database.host"},
		{"postgres pool too small", func(c *config.Config) {
			c.Dataset.Source = config.DatasetSourcePostgres
			c.Database.MaxConns = 0
		}, "database.max_conns"},
		{"unknown store", func(c *config.Config) { c.Store.Backend = "etcd" }, "store.backend"},
		{"redis store without addr", func(c *config.Config) {
			c.Store.Backend = "redis"
			c.Redis.Addr = ""
		}, "redis.addr"},
		{"negative ttl", func(c *config.Config) { c.Store.TTL = -1 }, "store.ttl"},
		{"zero fallback weight", func(c *config.Config) { c.Engine.FallbackWeight = 0 }, "engine.fallback_weight"},
		{"contact rate above one", func(c *config.Config) { c.Canvass.TargetContactRate = 1.5 }, "canvass.target_contact_rate"},
		{"unknown algorithm", func(c *config.Config) { c.Lookalike.Algorithm = "jaccard" }, "lookalike.algorithm"},
		{"no workers", func(c *config.Config) { c.Lookalike.Workers = 0 }, "lookalike.workers"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "text" }, "log.format"},
		{"relative metrics path", func(c *config.Config) {
			c.Metrics.Enabled = true
			c.Metrics.Path = "metrics"
		}, "metrics.path"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_Validate_PostgresWithDSN(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Dataset.Source = config.DatasetSourcePostgres
	cfg.Database.Host = ""
	cfg.Database.DSN = "postgres://u@h/db"
	assert.NoError(t, cfg.Validate())
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0.0.0.0:8080", config.Default().Server.Addr())
}

//Personal.AI order the ending
