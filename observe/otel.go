package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceObserver annotates the OpenTelemetry span already present in the
// context with wait lifecycle events. It creates no spans of its own, so it
// is inert when the caller is not tracing.
type TraceObserver struct{}

func (TraceObserver) OnStart(ctx context.Context, info WaitInfo) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("wait.start", trace.WithAttributes(
		attribute.String("wait.label", info.Label),
		attribute.String("wait.interval", info.Interval.String()),
		attribute.Int("wait.allowed_errors", info.AllowedErrors),
	))
}

func (TraceObserver) OnAttempt(ctx context.Context, att Attempt) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("wait.label", att.Info.Label),
		attribute.Int("wait.attempt", att.Seq),
		attribute.String("wait.outcome", att.Outcome.String()),
	}
	if att.Err != nil {
		attrs = append(attrs, attribute.String("wait.error", att.Err.Error()))
	}
	span.AddEvent("wait.attempt", trace.WithAttributes(attrs...))
}

func (TraceObserver) OnSleep(ctx context.Context, info WaitInfo, d time.Duration) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("wait.sleep", trace.WithAttributes(
		attribute.String("wait.label", info.Label),
		attribute.String("wait.duration", d.String()),
	))
}

func (TraceObserver) OnEnd(ctx context.Context, res Result) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if res.Err != nil {
		span.SetStatus(codes.Error, res.Err.Error())
		span.RecordError(res.Err)
	}
	span.AddEvent("wait.end", trace.WithAttributes(
		attribute.String("wait.label", res.Info.Label),
		attribute.Int("wait.attempts", res.Attempts),
	))
}
