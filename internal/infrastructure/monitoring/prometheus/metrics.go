package prometheus

import (
	"strconv"
	"time"
)

// Operation names used as the "operation" label.
const (
	OpBuildEntity     = "build_entity"
	OpCompare         = "compare"
	OpCreateUniverse  = "create_universe"
	OpSortUniverse    = "sort_universe"
	OpEstimateStaff   = "estimate_staffing"
	OpOptimizeTurfs   = "optimize_turfs"
	OpRouteSuggestion = "route_suggestion"
	OpFindLookalikes  = "find_lookalikes"
	OpAggregate       = "aggregate"
	OpRenderReport    = "render_report"
)

// Outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Buckets.
var (
	DefaultHTTPDurationBuckets      = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultOperationDurationBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultMatchCountBuckets        = []float64{0, 1, 5, 10, 25, 50, 100, 250}
	DefaultDoorBuckets              = []float64{100, 1000, 5000, 10000, 25000, 50000, 100000}
)

// EngineMetrics holds every metric the engine and its HTTP surface emit.
type EngineMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Engine operations
	OperationsTotal   CounterVec
	OperationDuration HistogramVec
	LookalikeMatches  HistogramVec
	UniverseDoors     HistogramVec

	// Registry and dataset
	StoreOperationsTotal CounterVec
	DatasetPrecincts     GaugeVec
	DatasetLoadDuration  HistogramVec
	UniversesStored      GaugeVec
}

// NewEngineMetrics registers all metrics on collector.
func NewEngineMetrics(collector MetricsCollector) *EngineMetrics {
	m := &EngineMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.OperationsTotal = collector.RegisterCounter("operations_total", "Engine operations by outcome", "operation", "status")
	m.OperationDuration = collector.RegisterHistogram("operation_duration_seconds", "Engine operation duration", DefaultOperationDurationBuckets, "operation")
	m.LookalikeMatches = collector.RegisterHistogram("lookalike_matches", "Matches returned per lookalike search", DefaultMatchCountBuckets, "algorithm")
	m.UniverseDoors = collector.RegisterHistogram("universe_doors", "Estimated doors per created universe", DefaultDoorBuckets, "source")

	m.StoreOperationsTotal = collector.RegisterCounter("store_operations_total", "Registry operations by outcome", "backend", "operation", "status")
	m.DatasetPrecincts = collector.RegisterGauge("dataset_precincts", "Precincts in the loaded dataset", "source")
	m.DatasetLoadDuration = collector.RegisterHistogram("dataset_load_duration_seconds", "Dataset load duration", DefaultHTTPDurationBuckets, "source")
	m.UniversesStored = collector.RegisterGauge("universes_stored", "Universes currently in the registry", "backend")

	return m
}

// NewNoopMetrics returns metrics that discard every observation.
func NewNoopMetrics() *EngineMetrics {
	return &EngineMetrics{
		HTTPRequestsTotal:    noopCounterVec{},
		HTTPRequestDuration:  noopHistogramVec{},
		HTTPActiveRequests:   noopGaugeVec{},
		OperationsTotal:      noopCounterVec{},
		OperationDuration:    noopHistogramVec{},
		LookalikeMatches:     noopHistogramVec{},
		UniverseDoors:        noopHistogramVec{},
		StoreOperationsTotal: noopCounterVec{},
		DatasetPrecincts:     noopGaugeVec{},
		DatasetLoadDuration:  noopHistogramVec{},
		UniversesStored:      noopGaugeVec{},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(m *EngineMetrics, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOperation records the outcome and duration of one engine call.
func RecordOperation(m *EngineMetrics, operation string, duration time.Duration, err error) {
	m.OperationsTotal.WithLabelValues(operation, status(err)).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStoreOperation records one registry call.
func RecordStoreOperation(m *EngineMetrics, backend, operation string, err error) {
	m.StoreOperationsTotal.WithLabelValues(backend, operation, status(err)).Inc()
}

// RecordDatasetLoad records a completed dataset load.
func RecordDatasetLoad(m *EngineMetrics, source string, precincts int, duration time.Duration) {
	m.DatasetPrecincts.WithLabelValues(source).Set(float64(precincts))
	m.DatasetLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
}

//Personal.AI order the ending
