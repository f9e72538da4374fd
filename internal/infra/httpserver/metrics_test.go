package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var _ = ginkgo.Describe("Metrics", func() {
	ginkgo.Context("MetricsMiddleware", func() {
		ginkgo.It("should count requests by endpoint and status", func() {
			reader := metric.NewManualReader()
			provider := metric.NewMeterProvider(metric.WithReader(reader))
			otel.SetMeterProvider(provider)
			ginkgo.DeferCleanup(func() {
				_ = provider.Shutdown(context.Background())
			})
			ResetMetricsForTesting()

			handler := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/registration", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusAccepted))
			gomega.Expect(IsMetricsInitialized()).To(gomega.BeTrue())

			var collected metricdata.ResourceMetrics
			gomega.Expect(reader.Collect(context.Background(), &collected)).To(gomega.Succeed())

			names := []string{}
			for _, scope := range collected.ScopeMetrics {
				for _, m := range scope.Metrics {
					names = append(names, m.Name)
				}
			}
			gomega.Expect(names).To(gomega.ContainElements(
				"push_registrar.http.requests.total",
				"push_registrar.http.request.duration.seconds",
			))
		})
	})

	ginkgo.DescribeTable("normalizeEndpoint",
		func(path, expected string) {
			gomega.Expect(normalizeEndpoint(path)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("root", "/", "root"),
		ginkgo.Entry("empty", "", "root"),
		ginkgo.Entry("health", "/healthz", "/healthz"),
		ginkgo.Entry("registration", "/v1/registration", "/v1/registration"),
		ginkgo.Entry("trailing slash", "/v1/registration/", "/v1/registration"),
		ginkgo.Entry("session", "/v1/session", "/v1/session"),
		ginkgo.Entry("unknown", "/wp-admin/setup.php", "other"),
		ginkgo.Entry("prefix lookalike", "/v1/registrations", "other"),
	)

	ginkgo.Context("responseWriter", func() {
		ginkgo.It("should remember the status code", func() {
			recorder := httptest.NewRecorder()
			wrapped := &responseWriter{ResponseWriter: recorder, statusCode: http.StatusOK}

			wrapped.WriteHeader(http.StatusNotFound)
			_, err := wrapped.Write([]byte("missing"))

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(wrapped.statusCode).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(recorder.Body.String()).To(gomega.Equal("missing"))
		})
	})
})
