package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const _metricPrefix = "push_registrar"

var (
	httpRequestDuration metric.Float64Histogram
	httpRequestTotal    metric.Int64Counter
	httpRequestActive   metric.Int64UpDownCounter
	metricsInitialized  bool
	metricsMutex        sync.Mutex

	knownEndpoints = []string{"/healthz", "/metrics", "/v1/registration", "/v1/session"}
)

func ResetMetricsForTesting() {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	metricsInitialized = false
}

func IsMetricsInitialized() bool {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	return metricsInitialized
}

func initMetrics() {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	if metricsInitialized {
		return
	}

	meter := otel.GetMeterProvider().Meter("push-registrar")

	var err error
	httpRequestDuration, err = meter.Float64Histogram(
		fmt.Sprintf("%s.%s", _metricPrefix, "http.request.duration.seconds"),
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		panic(err)
	}

	httpRequestTotal, err = meter.Int64Counter(
		fmt.Sprintf("%s.%s", _metricPrefix, "http.requests.total"),
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		panic(err)
	}

	httpRequestActive, err = meter.Int64UpDownCounter(
		fmt.Sprintf("%s.%s", _metricPrefix, "http.requests.active"),
		metric.WithDescription("Number of HTTP requests currently being processed"),
	)
	if err != nil {
		panic(err)
	}

	metricsInitialized = true
}

// MetricsMiddleware records duration, count and in-flight requests per endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	initMetrics()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			endpointAttrs := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.endpoint", normalizeEndpoint(r.URL.Path)),
			)

			httpRequestActive.Add(r.Context(), 1, endpointAttrs)
			defer httpRequestActive.Add(r.Context(), -1, endpointAttrs)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			attrs := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.endpoint", normalizeEndpoint(r.URL.Path)),
				attribute.Int("http.status_code", wrapped.statusCode),
			)
			httpRequestDuration.Record(r.Context(), time.Since(start).Seconds(), attrs)
			httpRequestTotal.Add(r.Context(), 1, attrs)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizeEndpoint keeps metric cardinality bounded: unknown paths collapse
// into "other".
func normalizeEndpoint(path string) string {
	if path == "" || path == "/" {
		return "root"
	}

	trimmed := strings.TrimSuffix(path, "/")
	for _, endpoint := range knownEndpoints {
		if trimmed == endpoint || strings.HasPrefix(trimmed, endpoint+"/") {
			return endpoint
		}
	}

	return "other"
}
