package tracing

import (
	"context"
	"sync"
	"time"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/settings"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// provider is the installed SDK provider, nil while tracing is off.
var provider struct {
	sync.Mutex
	tp *sdktrace.TracerProvider
}

func newProvider(ctx context.Context, tSettings *settings.Settings) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(tSettings.TracingCollectorURL.Host),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, errors.NewConfigurationError("otlp exporter for %s", tSettings.TracingCollectorURL.Host, err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(tSettings.ClientName),
		semconv.DeploymentEnvironmentKey.String(tSettings.Network),
	))
	if err != nil {
		return nil, errors.NewConfigurationError("otel resource", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(tSettings.TracingSampleRate))),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
	), nil
}

// InitTracer exports spans over OTLP/HTTP when tracing_enabled is set. With
// tracing off the global no-op provider stays, so spans cost next to nothing.
// A provider that is already installed is kept.
func InitTracer(tSettings *settings.Settings) error {
	if !tSettings.TracingEnabled {
		return nil
	}

	if tSettings.TracingCollectorURL == nil {
		return errors.NewConfigurationError("tracing_enabled needs tracing_collector_url")
	}

	provider.Lock()
	defer provider.Unlock()

	if provider.tp != nil {
		return nil
	}

	tp, err := newProvider(context.Background(), tSettings)
	if err != nil {
		return err
	}

	provider.tp = tp

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return nil
}

// ShutdownTracer flushes and stops the provider installed by InitTracer.
func ShutdownTracer(ctx context.Context) error {
	provider.Lock()
	defer provider.Unlock()

	tp := provider.tp
	if tp == nil {
		return nil
	}

	provider.tp = nil

	if err := tp.Shutdown(ctx); err != nil {
		return errors.NewServiceError("tracer shutdown", err)
	}

	return nil
}
