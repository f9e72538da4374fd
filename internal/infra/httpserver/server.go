package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"push-registrar/internal/infra/node"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const _defaultAddr = ":3000"

type Server interface {
	Run() error
	Shutdown(context.Context) error
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

var _ Server = &StandardServer{}

type StandardServer struct {
	server *http.Server
}

func (s *StandardServer) Run() error {
	slog.Info("http server listening", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *StandardServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *StandardServer) Handler() http.Handler {
	return s.server.Handler
}

func NewServer(config ServerConfig, controllers ...Controller) *StandardServer {
	if config.Addr == "" {
		config.Addr = _defaultAddr
	}

	router := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           300,
	})

	tracingMiddleware := createTracingMiddleware()
	metricsMiddleware := MetricsMiddleware()

	server := &StandardServer{
		&http.Server{
			Addr: config.Addr,
			Handler: c.Handler(
				metricsMiddleware(
					tracingMiddleware(router),
				),
			),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	router.Handle("GET /healthz", getHealthz())
	router.Handle("GET /metrics", promhttp.Handler())

	for _, controller := range controllers {
		controller.AddRoutes(router)
	}

	return server
}

// createTracingMiddleware starts a server span per request, continuing any b3
// context sent by the caller.
func createTracingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			propagator := b3.New()
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			tracer := otel.Tracer("push-registrar")
			ctx, span := tracer.Start(ctx, "http.request",
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
					attribute.String("http.user_agent", r.UserAgent()),
					attribute.String("http.remote_addr", r.RemoteAddr),
					attribute.String("component", "http-server"),
				),
			)
			defer span.End()

			r = r.WithContext(ctx)
			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			span.SetAttributes(attribute.Int("http.status_code", wrapped.statusCode))
		})
	}
}

func getHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		span := GetSpanFromContext(r)
		span.SetAttributes(attribute.String("endpoint", "healthz"))

		info := node.GetNodeInfo()
		output := map[string]string{
			"status":  "success",
			"version": info.Version,
			"node_id": info.ID,
		}
		ReplyJSONResponse(w, http.StatusOK, output)
	}
}
