// Package tracing times a unit of work three ways at once: an OpenTelemetry
// span, a nested gocore stat and an optional prometheus histogram.
package tracing

import (
	"context"

	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/bsv-blockchain/utxoledger"

type Option func(*spanConfig)

type spanConfig struct {
	parent    *gocore.Stat
	histogram prometheus.Observer
	attrs     []attribute.KeyValue
}

// WithParentStat nests the stat under parent when ctx does not already carry
// a stat from an enclosing StartTracing call.
func WithParentStat(parent *gocore.Stat) Option {
	return func(c *spanConfig) { c.parent = parent }
}

// WithHistogram observes the elapsed seconds when the work ends.
func WithHistogram(h prometheus.Observer) Option {
	return func(c *spanConfig) { c.histogram = h }
}

func WithTag(key, value string) Option {
	return func(c *spanConfig) { c.attrs = append(c.attrs, attribute.String(key, value)) }
}

// StartTracing begins timing name. The returned function ends the span and
// records every non-nil error passed to it on the span.
func StartTracing(ctx context.Context, name string, options ...Option) (context.Context, *gocore.Stat, func(...error)) {
	cfg := spanConfig{parent: rootStat}
	for _, o := range options {
		o(&cfg)
	}

	ctx, stat := childStat(ctx, name, cfg.parent)
	start := gocore.CurrentTime()

	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(cfg.attrs...))

	return ctx, stat, func(errs ...error) {
		for _, err := range errs {
			if err == nil {
				continue
			}

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
		stat.AddTime(start)

		if cfg.histogram != nil {
			cfg.histogram.Observe(gocore.CurrentTime().Sub(start).Seconds())
		}
	}
}
