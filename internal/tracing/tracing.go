// Package tracing wraps ComputedCell recomputation and Trigger action
// dispatch in OpenTelemetry spans, entirely from outside pkg/cell: it
// never imports pkg/cell and never modifies the core's hot path. A
// caller calls TracedCompute/TracedAction from inside the compute/action
// closures it hands to NewComputed/NewTrigger.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "cellbind"

// Config names the tracer and any static attributes attached to every
// span it produces.
type Config struct {
	TracerName string
	Attributes []attribute.KeyValue
	tracer     trace.Tracer
}

// Option configures a Config.
type Option func(*Config)

// WithTracerName overrides the default "cellbind" tracer name.
func WithTracerName(name string) Option { return func(c *Config) { c.TracerName = name } }

// WithAttributes attaches static attributes to every span this package
// starts.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *Config) { c.Attributes = append(c.Attributes, attrs...) }
}

func resolve(opts []Option) Config {
	cfg := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.tracer = otel.Tracer(cfg.TracerName)
	return cfg
}

// TracedCompute runs compute inside a span named "cellbind.compute",
// tagged with the cell name and the configured attributes, and returns
// its result. No dependency count is recorded on the span. A panic from
// compute is recovered, recorded as a span error and re-panicked, since
// compute functions do not return errors but may panic on a programmer
// error from pkg/cell's own invariant checks.
func TracedCompute[T any](ctx context.Context, name string, compute func() T, opts ...Option) T {
	cfg := resolve(opts)
	_, span := cfg.tracer.Start(ctx, "cellbind.compute",
		trace.WithAttributes(append([]attribute.KeyValue{attribute.String("cellbind.cell", name)}, cfg.Attributes...)...))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("panic: %v", r))
			span.SetStatus(codes.Error, "compute panicked")
			panic(r)
		}
	}()

	return compute()
}

// TracedAction wraps a Trigger's action function in a span named
// "cellbind.trigger", recording whether the action panicked.
func TracedAction(ctx context.Context, name string, action func(), opts ...Option) {
	cfg := resolve(opts)
	_, span := cfg.tracer.Start(ctx, "cellbind.trigger",
		trace.WithAttributes(append([]attribute.KeyValue{attribute.String("cellbind.trigger", name)}, cfg.Attributes...)...))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("panic: %v", r))
			span.SetStatus(codes.Error, "action panicked")
			panic(r)
		}
	}()

	action()
}
