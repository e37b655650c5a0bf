// Package telemetry sets up the global OpenTelemetry tracer and meter providers.
package telemetry

import (
	"context"
	"fmt"

	"github.com/abgdnv/whiskystock/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// NewTracerProvider installs a global tracer provider. Spans are exported over OTLP/HTTP only when
// traces are enabled; otherwise they are still sampled so trace ids reach the logs.
func NewTracerProvider(ctx context.Context, serviceName string, cfg config.TracesConfig) (*tracesdk.TracerProvider, error) {
	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithResource(newResource(serviceName)),
	}

	if cfg.Enabled {
		collectorOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.OtlpHttp.Endpoint),
			otlptracehttp.WithTimeout(cfg.OtlpHttp.Timeout),
		}
		if cfg.OtlpHttp.Insecure {
			collectorOpts = append(collectorOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, collectorOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		opts = append(opts, tracesdk.WithBatcher(exporter))
	}

	tp := tracesdk.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}

func newResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
}
