// Package driver runs a WhizzML script once per input resource, keeping a
// bounded number of executions in flight and streaming finished executions
// back in completion order.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aponysus/bigml"
	"github.com/aponysus/bigml/resource"
	"github.com/aponysus/bigml/wait"
)

// DefaultMaxTasks is the number of executions kept in flight when Options
// does not say otherwise.
const DefaultMaxTasks = 2

// Options configure a batch run.
type Options struct {
	// Script is the WhizzML script to execute, once per resource.
	Script resource.ID[resource.Script]

	// Name is used as the name of each created execution.
	Name string

	// ResourceInputName is the script input that receives each resource ID.
	// Defaults to "resource".
	ResourceInputName string

	// Inputs are extra script inputs shared by every execution.
	Inputs []Input

	// Outputs are the script outputs to include in each execution's result.
	Outputs []string

	// Tags to attach to every created execution.
	Tags []string

	// MaxTasks is the maximum number of executions in flight at once.
	// Defaults to DefaultMaxTasks.
	MaxTasks int

	// RetryOn reclassifies failed executions whose BigML status message
	// matches the pattern as temporary, so the whole execution is recreated
	// and retried. Executions that fail remotely are otherwise permanent.
	RetryOn *regexp.Regexp

	// RetryCount is the number of retries allowed per resource when RetryOn
	// or a transient API error strikes.
	RetryCount int
}

// Driver executes one script run per input resource against a BigML account.
type Driver struct {
	client *bigml.Client
	opts   Options
	logger *slog.Logger
}

// New returns a driver for the given client and options.
func New(client *bigml.Client, opts Options) (*Driver, error) {
	if client == nil {
		return nil, errors.New("driver: client must not be nil")
	}
	if opts.Script == "" {
		return nil, errors.New("driver: a script ID is required")
	}
	if opts.ResourceInputName == "" {
		opts.ResourceInputName = "resource"
	}
	if opts.MaxTasks <= 0 {
		opts.MaxTasks = DefaultMaxTasks
	}
	if opts.RetryCount < 0 {
		opts.RetryCount = 0
	}
	return &Driver{
		client: client,
		opts:   opts,
		logger: slog.Default().With("script", opts.Script.String()),
	}, nil
}

// Run reads resource IDs from ids until it is closed, runs the script once
// per ID with at most MaxTasks executions in flight, and calls emit with
// each finished execution in completion order. emit is never called
// concurrently.
//
// The first permanent failure cancels the remaining work and is returned,
// but executions that completed before the failure have already been
// emitted.
func (d *Driver) Run(ctx context.Context, ids <-chan string, emit func(*resource.Execution) error) error {
	results := make(chan *resource.Execution)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		tasks, tctx := errgroup.WithContext(ctx)
		tasks.SetLimit(d.opts.MaxTasks)
		defer close(results)

	feed:
		for {
			select {
			case <-tctx.Done():
				break feed
			case id, ok := <-ids:
				if !ok {
					break feed
				}
				tasks.Go(func() error {
					exec, err := d.runOne(tctx, id)
					if err != nil {
						return err
					}
					select {
					case results <- exec:
						return nil
					case <-tctx.Done():
						return tctx.Err()
					}
				})
			}
		}
		return tasks.Wait()
	})

	group.Go(func() error {
		for exec := range results {
			if err := emit(exec); err != nil {
				return fmt.Errorf("could not emit execution %s: %w", exec.Resource, err)
			}
		}
		return nil
	})

	return group.Wait()
}

// outerOptions governs the whole create-and-wait cycle for one resource:
// creation plus remote execution, retried RetryCount times end to end.
func (d *Driver) outerOptions(id string) *wait.Options {
	return wait.NewOptions().
		Label(id).
		RetryInterval(2 * time.Minute).
		BackoffType(wait.Exponential).
		AllowedErrors(d.opts.RetryCount)
}

// createOptions governs a single creation call against the API. The long
// intervals are deliberate: creation failures are usually API limits, and
// somebody else's batch job may free slots within the half hour these
// retries span.
func createOptions(id string) *wait.Options {
	return wait.NewOptions().
		Label("create execution for " + id).
		RetryInterval(time.Minute).
		BackoffType(wait.Exponential).
		AllowedErrors(6)
}

// runOne runs the script against a single resource ID. The remote execution
// failing with a message matching RetryOn recreates it from scratch, up to
// RetryCount times; any other failure is final, since creation and polling
// carry their own transient-error retries.
func (d *Driver) runOne(ctx context.Context, id string) (*resource.Execution, error) {
	logger := d.logger.With("resource", id)
	engine := d.client.WaitEngine()

	return wait.For(ctx, engine, d.outerOptions(id), func(ctx context.Context) wait.Status[*resource.Execution] {
		exec, err := d.createAndWait(ctx, id)
		if err == nil {
			return wait.Finished(exec)
		}

		var berr *bigml.Error
		if errors.As(err, &berr) && berr.Kind == bigml.ErrKindWaitFailed &&
			d.opts.RetryOn != nil && d.opts.RetryOn.MatchString(berr.Message) {
			logger.Warn("execution failed with retryable message, recreating",
				"execution", berr.ResourceID, "message", berr.Message)
			return wait.FailedTemporarily[*resource.Execution](err)
		}
		return wait.FailedPermanently[*resource.Execution](err)
	})
}

// createAndWait creates one execution and polls it to completion.
func (d *Driver) createAndWait(ctx context.Context, id string) (*resource.Execution, error) {
	args, err := d.executionArgs(id)
	if err != nil {
		return nil, err
	}

	engine := d.client.WaitEngine()
	exec, err := wait.For(ctx, engine, createOptions(id), func(ctx context.Context) wait.Status[*resource.Execution] {
		created, err := bigml.Create[resource.Execution](ctx, d.client, args)
		if err != nil {
			return wait.Classify[*resource.Execution](err, bigml.IsTemporary)
		}
		return wait.Finished(created)
	})
	if err != nil {
		return nil, err
	}

	d.logger.Debug("created execution", "resource", id, "execution", exec.Resource)
	return bigml.WaitForResource(ctx, d.client, exec.Resource)
}

// executionArgs builds the creation arguments for one resource ID.
func (d *Driver) executionArgs(id string) (*resource.ExecutionArgs, error) {
	args := resource.NewExecutionArgs(d.opts.Script)
	args.Name = d.opts.Name
	args.Tags = d.opts.Tags

	if err := args.AddInput(d.opts.ResourceInputName, id); err != nil {
		return nil, err
	}
	for _, in := range d.opts.Inputs {
		if err := args.AddInput(in.Name, in.Value); err != nil {
			return nil, err
		}
	}
	for _, out := range d.opts.Outputs {
		args.AddOutput(out)
	}
	return args, nil
}
