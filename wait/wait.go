// Package wait implements a policy-driven polling loop for long-running
// asynchronous remote operations: call a probe, classify its outcome, sleep
// with backoff, and stop on success, a terminal failure, an exhausted error
// budget or a deadline.
package wait

import (
	"context"
	"errors"
	"time"

	"github.com/aponysus/bigml/observe"
)

// ErrTimeout is returned when the next scheduled sleep would cross the
// wait's deadline. It is raised only by the engine's own deadline check,
// never by a probe.
var ErrTimeout = errors.New("the operation timed out")

// Probe is the caller-supplied function invoked once per poll iteration.
//
// The engine never runs more than one invocation of a probe at a time.
type Probe[T any] func(ctx context.Context) Status[T]

// Engine carries the pluggable parts of the polling loop: the observer that
// receives transition events and, for tests, the clock and sleep functions.
// A nil *Engine behaves like NewEngine().
type Engine struct {
	observer observe.Observer
	clock    func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithObserver sets the observer notified of wait transitions.
func WithObserver(o observe.Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithClock sets the clock function. Intended for tests.
func WithClock(f func() time.Time) EngineOption {
	return func(e *Engine) { e.clock = f }
}

// WithSleep sets the sleep function. Intended for tests.
func WithSleep(f func(context.Context, time.Duration) error) EngineOption {
	return func(e *Engine) { e.sleep = f }
}

// NewEngine creates an Engine with default options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.observer == nil {
		e.observer = observe.Base{}
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.sleep == nil {
		e.sleep = sleepWithContext
	}
	return e
}

var defaultEngine = NewEngine()

// For calls probe repeatedly until it reports Finished, fails permanently,
// exceeds the temporary-failure budget, or runs out of time. It honors opts
// and returns the Finished value or the last error observed.
//
// The deadline, if any, is computed once when For is called and compared
// before every sleep, not before every probe, so a slow probe is never
// preempted mid-flight. Every sleep lasts at least MinSleep, regardless of
// the configured retry interval.
func For[T any](ctx context.Context, eng *Engine, opts *Options, probe Probe[T]) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	if eng == nil {
		eng = defaultEngine
	}
	if opts == nil {
		opts = NewOptions()
	}

	start := eng.clock()
	deadline, hasDeadline := opts.deadline(start)
	info := observe.WaitInfo{
		Label:         opts.label,
		Deadline:      deadline,
		Interval:      opts.retryInterval,
		AllowedErrors: opts.allowedErrors,
	}
	eng.observer.OnStart(ctx, info)

	retryInterval := opts.retryInterval
	errorsSeen := 0
	attempts := 0

	finish := func(err error) {
		eng.observer.OnEnd(ctx, observe.Result{
			Info:     info,
			Start:    start,
			End:      eng.clock(),
			Attempts: attempts,
			Err:      err,
		})
	}

	for {
		if err := ctx.Err(); err != nil {
			finish(err)
			return zero, err
		}

		attemptStart := eng.clock()
		st := probe(ctx)
		attempts++
		att := observe.Attempt{
			Info:  info,
			Seq:   attempts - 1,
			Start: attemptStart,
			End:   eng.clock(),
			Err:   st.Err(),
		}

		switch st.Kind() {
		case KindFinished:
			att.Outcome = observe.OutcomeFinished
			att.ErrorsSeen = errorsSeen
			eng.observer.OnAttempt(ctx, att)
			finish(nil)
			return st.Value(), nil

		case KindWaiting:
			att.Outcome = observe.OutcomeWaiting
			att.ErrorsSeen = errorsSeen
			eng.observer.OnAttempt(ctx, att)

		case KindFailedTemporarily:
			if errorsSeen >= opts.allowedErrors {
				att.Outcome = observe.OutcomeTemporaryFailure
				att.ErrorsSeen = errorsSeen
				eng.observer.OnAttempt(ctx, att)
				err := statusErr(st)
				finish(err)
				return zero, err
			}
			errorsSeen++
			att.Outcome = observe.OutcomeTemporaryFailure
			att.ErrorsSeen = errorsSeen
			eng.observer.OnAttempt(ctx, att)

		case KindFailedPermanently:
			att.Outcome = observe.OutcomePermanentFailure
			att.ErrorsSeen = errorsSeen
			eng.observer.OnAttempt(ctx, att)
			err := statusErr(st)
			finish(err)
			return zero, err
		}

		if hasDeadline && wouldExceedDeadline(eng.clock(), retryInterval, deadline) {
			finish(ErrTimeout)
			return zero, ErrTimeout
		}

		d := effectiveSleep(retryInterval)
		eng.observer.OnSleep(ctx, info, d)
		if err := eng.sleep(ctx, d); err != nil {
			finish(err)
			return zero, err
		}

		retryInterval = opts.backoff.next(retryInterval)
	}
}

// statusErr returns the error carried by a failed status, guarding against
// probes that report failure with a nil error.
func statusErr[T any](s Status[T]) error {
	if err := s.Err(); err != nil {
		return err
	}
	return errors.New("wait: probe reported failure without an error")
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
