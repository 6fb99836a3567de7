package wait

import "time"

// MinSleep is the minimum time between probes, recommended by BigML support
// to avoid a ban. It is applied to every sleep regardless of the configured
// retry interval.
const MinSleep = 4 * time.Second

// Backoff controls how the retry interval changes between probes.
type Backoff int

const (
	// Linear uses the same interval for each retry.
	Linear Backoff = iota
	// Exponential doubles the interval after each retry.
	Exponential
)

func (b Backoff) String() string {
	switch b {
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	default:
		return "invalid"
	}
}

// next returns the interval to use after one iteration with the current
// interval. Identity under Linear, doubled under Exponential.
func (b Backoff) next(current time.Duration) time.Duration {
	if b == Exponential {
		return current * 2
	}
	return current
}

// Options control how long we wait and what makes us give up. Options uses
// chained setters, so you can write:
//
//	opts := wait.NewOptions().
//		Timeout(2 * time.Minute).
//		AllowedErrors(5)
//
// The zero of each setting comes from NewOptions: no timeout, a 10-second
// retry interval, linear backoff, and 2 allowed errors.
type Options struct {
	label         string
	timeout       time.Duration
	hasTimeout    bool
	retryInterval time.Duration
	backoff       Backoff
	allowedErrors int
}

// NewOptions returns the default options.
func NewOptions() *Options {
	return &Options{
		retryInterval: 10 * time.Second,
		backoff:       Linear,
		allowedErrors: 2,
	}
}

// Label attaches a short description of what is being waited on. It appears
// in observer events only.
func (o *Options) Label(label string) *Options {
	o.label = label
	return o
}

// Timeout sets an optional timeout after which to abandon the wait. The
// deadline is computed once, when the wait starts.
func (o *Options) Timeout(d time.Duration) *Options {
	o.timeout = d
	o.hasTimeout = true
	return o
}

// RetryInterval sets how long to sleep between probes. Defaults to 10
// seconds. Note that BigML has suggested not polling more often than every
// 4 seconds, so lower values are clamped up to MinSleep when sleeping.
func (o *Options) RetryInterval(d time.Duration) *Options {
	o.retryInterval = d
	return o
}

// BackoffType selects linear (default) or exponential backoff.
func (o *Options) BackoffType(b Backoff) *Options {
	o.backoff = b
	return o
}

// AllowedErrors sets how many temporary failures are tolerated before giving
// up. This is useful for long-running executions, where a transient network
// error should not abort the whole wait.
func (o *Options) AllowedErrors(n int) *Options {
	if n < 0 {
		n = 0
	}
	o.allowedErrors = n
	return o
}

// Clone returns an independent copy of o, so one Options value can be
// reused across waits that relabel or otherwise adjust it.
func (o *Options) Clone() *Options {
	c := *o
	return &c
}

// deadline computes the absolute deadline for a wait starting at now.
func (o *Options) deadline(now time.Time) (time.Time, bool) {
	if !o.hasTimeout {
		return time.Time{}, false
	}
	return now.Add(o.timeout), true
}

// effectiveSleep clamps interval up to the MinSleep floor.
func effectiveSleep(interval time.Duration) time.Duration {
	if interval < MinSleep {
		return MinSleep
	}
	return interval
}

// wouldExceedDeadline reports whether sleeping for interval starting at now
// would cross the deadline.
func wouldExceedDeadline(now time.Time, interval time.Duration, deadline time.Time) bool {
	return now.Add(effectiveSleep(interval)).After(deadline)
}
