package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 9090
  mode: debug
log:
  level: debug
  format: console
dataset:
  source: file
  path: testdata/precincts.yaml
store:
  backend: redis
  ttl: 24h
redis:
  addr: "cache:6379"
canvass:
  target_doors_per_turf: 60
lookalike:
  algorithm: mahalanobis
  workers: 2
metrics:
  enabled: true
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "testdata/precincts.yaml", cfg.Dataset.Path)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Store.TTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 60, cfg.Canvass.TargetDoorsPerTurf)
	assert.Equal(t, 40, cfg.Canvass.TargetDoorsPerHour)
	assert.Equal(t, "mahalanobis", cfg.Lookalike.Algorithm)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "store:\n  backend: etcd\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PRECINCT_SERVER_PORT", "7070")
	t.Setenv("PRECINCT_LOOKALIKE_ALGORITHM", "cosine")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "cosine", cfg.Lookalike.Algorithm)
}

func TestLoadFromEnv_NoFile(t *testing.T) {
	t.Setenv("PRECINCT_DATASET_PATH", "/srv/precincts.json")
	t.Setenv("PRECINCT_STORE_BACKEND", "memory")
	t.Setenv("PRECINCT_ENGINE_FALLBACK_WEIGHT", "500")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/srv/precincts.json", cfg.Dataset.Path)
	assert.Equal(t, 500.0, cfg.Engine.FallbackWeight)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadOrEnv(t *testing.T) {
	cfg, err := LoadOrEnv("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDatasetPath, cfg.Dataset.Path)

	cfg, err = LoadOrEnv(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.Error(t, err)
}

func TestMustLoad_Panic(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

//Personal.AI order the ending
