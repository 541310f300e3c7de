package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/precinct-analytics/internal/testutil"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) { c.String(http.StatusOK, "ok") }

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRequestLogging_Levels(t *testing.T) {
	log := testutil.NewMockLogger()
	r := gin.New()
	r.Use(RequestID(), RequestLogging(log, DefaultLoggingConfig()))
	r.GET("/ok", okHandler)
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/healthz", okHandler)

	serve(r, httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/bad", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.True(t, log.HasMessage("info", "HTTP request completed"))
	assert.True(t, log.HasMessage("warn", "HTTP request completed with client error"))
	assert.True(t, log.HasMessage("error", "HTTP request completed with server error"))
	assert.Len(t, log.GetMessages(), 3)
}

func TestRequestLogging_Slow(t *testing.T) {
	log := testutil.NewMockLogger()
	r := gin.New()
	r.Use(RequestLogging(log, LoggingConfig{SlowThreshold: time.Nanosecond}))
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.True(t, log.HasMessage("warn", "HTTP request completed (slow)"))
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: "mw"}, nil)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Metrics(prom.NewEngineMetrics(collector)))
	r.GET("/v1/universes/:id", okHandler)

	serve(r, httptest.NewRequest(http.MethodGet, "/v1/universes/u-1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/v1/universes/u-2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `mw_http_requests_total{method="GET",path="/v1/universes/:id",status_code="200"} 2`)
	assert.Contains(t, body, `mw_http_requests_total{method="GET",path="unmatched",status_code="404"} 1`)
	assert.Contains(t, body, `mw_http_active_requests{method="GET"} 0`)
}

func TestMetrics_NilUsesNoop(t *testing.T) {
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/x", okHandler)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig("https://app.example.org", "*.campaign.org")))
	r.GET("/x", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example.org")
	w := serve(r, req)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://field.campaign.org")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowAll(t *testing.T) {
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig("*")))
	r.GET("/x", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://anywhere.test")
	assert.Equal(t, "*", serve(r, req).Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	cfg := DefaultRateLimitConfig(0.001, 2)
	cfg.KeyFunc = func(c *gin.Context) string { return c.GetHeader("X-Client") }
	r.Use(RateLimit(cfg))
	r.GET("/x", okHandler)
	r.GET("/healthz", okHandler)

	get := func(client, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Client", client)
		return serve(r, req)
	}

	assert.Equal(t, http.StatusOK, get("a", "/x").Code)
	assert.Equal(t, http.StatusOK, get("a", "/x").Code)
	w := get("a", "/x")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "COMMON_009")

	assert.Equal(t, http.StatusOK, get("b", "/x").Code)
	assert.Equal(t, http.StatusOK, get("a", "/healthz").Code)
}

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(1000, 0, 0)
	ok, remaining, wait := l.Allow("k")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)
	assert.Zero(t, wait)
}

//Personal.AI order the ending
