package bigml

import (
	"context"
	"time"

	"github.com/aponysus/bigml/resource"
	"github.com/aponysus/bigml/wait"
)

// ProgressFunc is called with the freshly fetched resource on every poll
// iteration. Returning an error aborts the wait permanently: a callback
// failure is assumed to be a caller bug, not a transient condition.
//
// The callback is owned by a single wait call; the engine never overlaps
// poll iterations, so no synchronization is needed.
type ProgressFunc[R resource.Resource] func(*R) error

// PollOptions returns the default options for polling a resource until it
// is ready: exponential backoff from a 10-second base, with 6 temporary
// errors allowed. Tuned against BigML's own retry guidance.
func PollOptions() *wait.Options {
	return wait.NewOptions().
		RetryInterval(10 * time.Second).
		BackoffType(wait.Exponential).
		AllowedErrors(6)
}

// WaitForResource polls an existing resource until BigML reports it ready,
// using PollOptions.
func WaitForResource[R resource.Resource](ctx context.Context, c *Client, id resource.ID[R]) (*R, error) {
	return WaitForResourceOpt[R](ctx, c, id, nil, nil)
}

// WaitForResourceOpt polls an existing resource until it is ready, honoring
// wait options and an optional progress callback. A nil opts means
// PollOptions.
//
// Transport failures while fetching are temporary (subject to the error
// budget). A resource that itself reports an error status fails the wait
// permanently: the remote job is dead, and only creating a fresh one can
// help.
func WaitForResourceOpt[R resource.Resource](
	ctx context.Context,
	c *Client,
	id resource.ID[R],
	opts *wait.Options,
	progress ProgressFunc[R],
) (*R, error) {
	if opts == nil {
		opts = PollOptions()
	} else {
		opts = opts.Clone()
	}
	opts.Label(id.String())

	return wait.For(ctx, c.engine, opts, func(ctx context.Context) wait.Status[*R] {
		res, err := Fetch(ctx, c, id)
		if err != nil {
			return wait.FailedTemporarily[*R](err)
		}
		if progress != nil {
			if err := progress(res); err != nil {
				return wait.FailedPermanently[*R](err)
			}
		}

		status := (*res).ResourceStatus()
		switch {
		case status.Code.IsReady():
			return wait.Finished(res)
		case status.Code.IsErr():
			return wait.FailedPermanently[*R](errWaitFailed(id.String(), status.Message))
		default:
			return wait.Waiting[*R]()
		}
	})
}
