package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/precinct-analytics/internal/application/engine"
	"github.com/turtacn/precinct-analytics/internal/config"
	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/precinct-analytics/internal/interfaces/http/handlers"
	"github.com/turtacn/precinct-analytics/internal/interfaces/http/middleware"
	"github.com/turtacn/precinct-analytics/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, metrics *prom.EngineMetrics) *engine.Engine {
	t.Helper()
	eng, err := engine.New(engine.Config{Dataset: testutil.SampleDataset(), Metrics: metrics})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_Routes(t *testing.T) {
	eng := newEngine(t, nil)
	router := NewRouter(RouterConfig{
		EntityHandler:    handlers.NewEntityHandler(eng),
		UniverseHandler:  handlers.NewUniverseHandler(eng),
		LookalikeHandler: handlers.NewLookalikeHandler(eng),
		ReportHandler:    handlers.NewReportHandler(eng),
		SegmentHandler:   handlers.NewSegmentHandler(eng),
		HealthHandler:    handlers.NewHealthHandler("test"),
	})

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/v1/entities/precincts/" + testutil.P1, "", http.StatusOK},
		{http.MethodPost, "/v1/comparisons", `{"left":{"id":"` + testutil.P1 + `"},"right":{"id":"` + testutil.P2 + `"}}`, http.StatusOK},
		{http.MethodGet, "/v1/universes", "", http.StatusOK},
		{http.MethodGet, "/v1/universes/missing", "", http.StatusNotFound},
		{http.MethodGet, "/v1/canvass/defaults", "", http.StatusOK},
		{http.MethodGet, "/v1/canvass/route?precincts=" + testutil.P1, "", http.StatusOK},
		{http.MethodGet, "/v1/canvass/metrics?precincts=" + testutil.P1, "", http.StatusOK},
		{http.MethodPost, "/v1/lookalikes", `{"source_precinct_ids":["` + testutil.P1 + `"]}`, http.StatusOK},
		{http.MethodPost, "/v1/reports/profile", `{"precinct_ids":["` + testutil.P1 + `"]}`, http.StatusOK},
		{http.MethodGet, "/v1/segments", "", http.StatusOK},
		{http.MethodGet, "/v1/nope", "", http.StatusNotFound},
		{http.MethodPut, "/v1/segments", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/metrics", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestNewRouter_NilHandlersLeaveRoutesOut(t *testing.T) {
	router := NewRouter(RouterConfig{})
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/v1/universes", "").Code)
}

func TestNewRouter_RequestIDAndMetrics(t *testing.T) {
	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: "rt"}, nil)
	require.NoError(t, err)
	metrics := prom.NewEngineMetrics(collector)
	eng := newEngine(t, metrics)

	router := NewRouter(RouterConfig{
		UniverseHandler:  handlers.NewUniverseHandler(eng),
		Metrics:          metrics,
		MetricsCollector: collector,
	})

	rec := serve(router, http.MethodGet, "/v1/canvass/defaults", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `rt_http_requests_total{method="GET",path="/v1/canvass/defaults",status_code="200"} 1`)
}

func TestNewRouter_CORSAndRateLimit(t *testing.T) {
	eng := newEngine(t, nil)
	cors := middleware.DefaultCORSConfig("https://app.example.org")
	rl := middleware.DefaultRateLimitConfig(0.001, 1)
	router := NewRouter(RouterConfig{
		UniverseHandler: handlers.NewUniverseHandler(eng),
		CORS:            &cors,
		RateLimit:       &rl,
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/canvass/defaults", nil)
	req.Header.Set("Origin", "https://app.example.org")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(router, http.MethodGet, "/v1/canvass/defaults", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestServer_StartStop(t *testing.T) {
	eng := newEngine(t, nil)
	srv := NewServer(eng, ServerOptions{
		Config: config.ServerConfig{
			Host:               "127.0.0.1",
			Mode:               gin.TestMode,
			ReadTimeout:        time.Second,
			WriteTimeout:       time.Second,
			ShutdownTimeout:    time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Version: "test",
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	base := "http://" + ln.Addr().String()
	resp, err := http.Get(base + "/readyz")
	require.NoError(t, err)
	var ready handlers.ReadinessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ready))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", ready.Components["store"].Status)

	body := bytes.NewBufferString(`{"name":"api","precinct_ids":["` + testutil.P1 + `"]}`)
	resp, err = http.Post(base+"/v1/universes", "application/json", body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	eng := newEngine(t, nil)
	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: "off"}, nil)
	require.NoError(t, err)

	srv := NewServer(eng, ServerOptions{Collector: collector, Metrics: config.MetricsConfig{Enabled: false}})
	assert.Equal(t, http.StatusNotFound, serve(srv.Handler(), http.MethodGet, "/metrics", "").Code)

	srv = NewServer(eng, ServerOptions{Collector: collector, Metrics: config.MetricsConfig{Enabled: true, Path: "/prom"}})
	assert.Equal(t, http.StatusOK, serve(srv.Handler(), http.MethodGet, "/prom", "").Code)
}

//Personal.AI order the ending
