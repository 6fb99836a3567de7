package observe

import (
	"context"
	"log/slog"
	"time"
)

// SlogObserver logs wait transitions through a *slog.Logger.
//
// Probe attempts and sleeps are logged at debug level; temporary failures are
// logged at warn level so that retried errors remain visible without failing
// anything.
type SlogObserver struct {
	Logger *slog.Logger
}

func (o SlogObserver) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o SlogObserver) OnStart(ctx context.Context, info WaitInfo) {
	o.logger().DebugContext(ctx, "wait started",
		"label", info.Label,
		"deadline", info.Deadline,
		"interval", info.Interval,
		"allowed_errors", info.AllowedErrors,
	)
}

func (o SlogObserver) OnAttempt(ctx context.Context, att Attempt) {
	switch att.Outcome {
	case OutcomeTemporaryFailure:
		o.logger().WarnContext(ctx, "wait attempt failed, will retry",
			"label", att.Info.Label,
			"attempt", att.Seq,
			"errors_seen", att.ErrorsSeen,
			"allowed_errors", att.Info.AllowedErrors,
			"error", att.Err,
		)
	default:
		o.logger().DebugContext(ctx, "wait attempt",
			"label", att.Info.Label,
			"attempt", att.Seq,
			"outcome", att.Outcome.String(),
			"error", att.Err,
		)
	}
}

func (o SlogObserver) OnSleep(ctx context.Context, info WaitInfo, d time.Duration) {
	o.logger().DebugContext(ctx, "wait sleeping",
		"label", info.Label,
		"sleep", d,
	)
}

func (o SlogObserver) OnEnd(ctx context.Context, res Result) {
	if res.Err != nil {
		o.logger().DebugContext(ctx, "wait failed",
			"label", res.Info.Label,
			"attempts", res.Attempts,
			"elapsed", res.End.Sub(res.Start),
			"error", res.Err,
		)
		return
	}
	o.logger().DebugContext(ctx, "wait finished",
		"label", res.Info.Label,
		"attempts", res.Attempts,
		"elapsed", res.End.Sub(res.Start),
	)
}
