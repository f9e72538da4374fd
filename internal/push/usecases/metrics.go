package usecases

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const _metricPrefix = "push_registrar"

var (
	remoteCompletions   metric.Int64Counter
	transportOperations metric.Int64Counter
	metricsOnce         sync.Once
)

func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("push-registrar")

		var err error
		remoteCompletions, err = meter.Int64Counter(
			fmt.Sprintf("%s.%s", _metricPrefix, "remote.completions"),
			metric.WithDescription("Completed remote registration calls by operation and outcome"),
		)
		if err != nil {
			panic(err)
		}

		transportOperations, err = meter.Int64Counter(
			fmt.Sprintf("%s.%s", _metricPrefix, "transport.operations"),
			metric.WithDescription("Push transport register/unregister calls by outcome"),
		)
		if err != nil {
			panic(err)
		}
	})
}

func recordRemoteCompletion(ctx context.Context, result RegistrationResult) {
	initMetrics()
	remoteCompletions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", string(result.Operation)),
		attribute.String("outcome", result.outcome()),
	))
}

func recordTransportOperation(ctx context.Context, operation Operation, err error) {
	initMetrics()
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	transportOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", string(operation)),
		attribute.String("outcome", outcome),
	))
}
