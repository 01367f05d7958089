package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Observer records scope events on trace.SpanFromContext(ctx). Events on a
// context without a recording span are dropped by the no-op span.
type Observer struct {
	benchmark attribute.KeyValue
}

// New returns an observer that tags every event with the benchmark name.
func New(benchmark string) *Observer {
	return &Observer{benchmark: attribute.String("benchmark", benchmark)}
}

func (o *Observer) ScopeCreated(ctx context.Context) {
	trace.SpanFromContext(ctx).AddEvent("scope.created", trace.WithAttributes(o.benchmark))
}

func (o *Observer) ScopeCancelled(ctx context.Context, cause error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("scope.cancelled", trace.WithAttributes(o.benchmark))
	if cause != nil {
		span.RecordError(cause)
		span.SetStatus(codes.Error, cause.Error())
	}
}

func (o *Observer) ScopeJoined(ctx context.Context, wait time.Duration) {
	trace.SpanFromContext(ctx).AddEvent("scope.joined", trace.WithAttributes(
		o.benchmark,
		attribute.Int64("wait_us", wait.Microseconds()),
	))
}

func (o *Observer) TaskStarted(ctx context.Context) {
	trace.SpanFromContext(ctx).AddEvent("task.started", trace.WithAttributes(o.benchmark))
}

func (o *Observer) TaskFinished(ctx context.Context, dur time.Duration, err error, panicked bool) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("task.finished", trace.WithAttributes(
		o.benchmark,
		attribute.Int64("duration_us", dur.Microseconds()),
		attribute.Bool("panicked", panicked),
	))
	if err != nil {
		span.RecordError(err)
	}
}
