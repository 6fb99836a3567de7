package observe

import (
	"context"
	"time"
)

// Outcome describes the result of a single probe invocation.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeFinished
	OutcomeWaiting
	OutcomeTemporaryFailure
	OutcomePermanentFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFinished:
		return "finished"
	case OutcomeWaiting:
		return "waiting"
	case OutcomeTemporaryFailure:
		return "failed_temporarily"
	case OutcomePermanentFailure:
		return "failed_permanently"
	default:
		return "unknown"
	}
}

// WaitInfo describes a single wait call as it begins.
type WaitInfo struct {
	// Label identifies what is being waited on ("create execution",
	// "execution/123", ...). May be empty.
	Label string

	// Deadline is the absolute deadline of the call, or the zero time if the
	// call has no timeout.
	Deadline time.Time

	// Interval is the configured initial retry interval.
	Interval time.Duration

	// AllowedErrors is the temporary-failure budget of the call.
	AllowedErrors int
}

// Attempt describes one probe invocation.
type Attempt struct {
	Info WaitInfo

	// Seq is the zero-based index of this probe invocation.
	Seq int

	Start time.Time
	End   time.Time

	Outcome Outcome

	// Err is set for failure outcomes.
	Err error

	// ErrorsSeen is the number of temporary failures observed so far,
	// including this attempt if it failed temporarily.
	ErrorsSeen int
}

// Result is the final record of a wait call.
type Result struct {
	Info WaitInfo

	Start time.Time
	End   time.Time

	// Attempts is the total number of probe invocations.
	Attempts int

	// Err is the terminal error, or nil on success.
	Err error
}

// Observer receives lifecycle callbacks for a single wait call.
//
// Callbacks are informational only; they are never invoked concurrently for
// the same call, because the wait engine never overlaps probe invocations.
type Observer interface {
	OnStart(ctx context.Context, info WaitInfo)
	OnAttempt(ctx context.Context, att Attempt)
	OnSleep(ctx context.Context, info WaitInfo, d time.Duration)
	OnEnd(ctx context.Context, res Result)
}
