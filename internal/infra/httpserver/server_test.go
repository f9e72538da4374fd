package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type pingController struct{}

func (pingController) AddRoutes(router *http.ServeMux) {
	router.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ReplyJSONResponse(w, http.StatusOK, map[string]string{"pong": "true"})
	})
}

var _ = ginkgo.Describe("HTTPServer", func() {
	var (
		tp       *trace.TracerProvider
		recorder *tracetest.SpanRecorder
	)

	ginkgo.BeforeEach(func() {
		recorder = tracetest.NewSpanRecorder()
		tp = trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
		otel.SetTracerProvider(tp)
	})

	ginkgo.AfterEach(func() {
		_ = tp.Shutdown(context.Background())
	})

	ginkgo.Context("NewServer", func() {
		ginkgo.It("should serve health, metrics and controller routes", func() {
			server := NewServer(ServerConfig{}, pingController{})

			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var health map[string]string
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &health)).To(gomega.Succeed())
			gomega.Expect(health).To(gomega.HaveKeyWithValue("status", "success"))
			gomega.Expect(health).To(gomega.HaveKey("version"))

			rec = httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			rec = httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Header().Get("Content-Type")).To(gomega.Equal("application/json"))
		})

		ginkgo.It("should answer CORS preflight for allowed origins", func() {
			server := NewServer(ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}})

			req := httptest.NewRequest(http.MethodOptions, "/v1/registration", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, req)

			gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("http://localhost:5173"))
		})
	})

	ginkgo.Context("TracingMiddleware", func() {
		ginkgo.It("should start a span per request and propagate it", func() {
			handler := createTracingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				span := GetSpanFromContext(r)
				gomega.Expect(span.SpanContext().HasSpanID()).To(gomega.BeTrue())
				w.WriteHeader(http.StatusTeapot)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusTeapot))
			gomega.Expect(rec.Header().Get("b3")).NotTo(gomega.BeEmpty())
			gomega.Expect(recorder.Ended()).To(gomega.HaveLen(1))
			gomega.Expect(recorder.Ended()[0].Name()).To(gomega.Equal("http.request"))
		})
	})

	ginkgo.Context("GetSpanFromContext", func() {
		ginkgo.It("should return a no-op span when no span is in context", func() {
			span := GetSpanFromContext(httptest.NewRequest(http.MethodGet, "/test", nil))
			gomega.Expect(span).NotTo(gomega.BeNil())
			gomega.Expect(span.SpanContext().IsValid()).To(gomega.BeFalse())
		})
	})
})
