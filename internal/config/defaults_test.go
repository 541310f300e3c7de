package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DatasetSourceFile, cfg.Dataset.Source)
	assert.Equal(t, DefaultDatasetPath, cfg.Dataset.Path)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, precinct.DefaultFallbackWeight, cfg.Engine.FallbackWeight)
	assert.Equal(t, 50, cfg.Canvass.TargetDoorsPerTurf)
	assert.Equal(t, 0.35, cfg.Canvass.TargetContactRate)
	assert.Equal(t, "euclidean", cfg.Lookalike.Algorithm)
	assert.Positive(t, cfg.Lookalike.Workers)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Dataset.Source = DatasetSourcePostgres
	cfg.Lookalike.Algorithm = "cosine"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "cosine", cfg.Lookalike.Algorithm)
	assert.Empty(t, cfg.Dataset.Path)
}

func TestApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Zero(t, cfg.Server.RateLimitBurst)

	cfg = &Config{}
	cfg.Server.RateLimitRPS = 5
	ApplyDefaults(cfg)
	assert.Equal(t, DefaultRateLimitBurst, cfg.Server.RateLimitBurst)

	cfg = &Config{}
	cfg.Server.RateLimitRPS = 5
	cfg.Server.RateLimitBurst = 3
	ApplyDefaults(cfg)
	assert.Equal(t, 3, cfg.Server.RateLimitBurst)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
