package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

type ShutdownFn func(context.Context) error

// Setup installs a meter provider exporting to the default Prometheus
// registry and, when otlpEndpoint is set, a tracer provider exporting over
// OTLP/gRPC. The returned function flushes and stops both.
func Setup(ctx context.Context, serviceName, otlpEndpoint string) (ShutdownFn, error) {
	res, err := telemetryResource(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, err
	}
	shutdowns := []ShutdownFn{InitMeterProvider(res, exporter)}

	if otlpEndpoint != "" {
		spanExporter, err := NewOTLPTraceExporter(ctx, otlpEndpoint)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, InitTraceProvider(res, spanExporter))
	}

	return func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}, nil
}

func InitMeterProvider(res *resource.Resource, reader metric.Reader) ShutdownFn {
	meterProvider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(reader))
	otel.SetMeterProvider(meterProvider)
	return meterProvider.Shutdown
}

func InitTraceProvider(res *resource.Resource, spanExporter trace.SpanExporter) ShutdownFn {
	bsp := trace.NewBatchSpanProcessor(spanExporter)
	tracerProvider := trace.NewTracerProvider(
		trace.WithSampler(trace.TraceIDRatioBased(1)),
		trace.WithResource(res),
		trace.WithSpanProcessor(bsp),
	)
	otel.SetTracerProvider(tracerProvider)
	return tracerProvider.Shutdown
}

func telemetryResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	// some detectors (process owner) fail in minimal containers
	if errors.Is(err, resource.ErrPartialResource) {
		return res, nil
	}
	return res, err
}

func NewOTLPTraceExporter(ctx context.Context, endpoint string) (*otlptrace.Exporter, error) {
	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(endpoint))
	return otlptrace.New(ctx, client)
}
