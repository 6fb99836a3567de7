// Command bigml-parallel runs a WhizzML script over many BigML resources in
// parallel, printing each finished execution as a line of JSON on stdout.
//
// Resource IDs come from repeated --resource flags, or from stdin (one per
// line) when no --resource is given. Credentials come from a YAML file
// passed with --credentials, or from the BIGML_USERNAME and BIGML_API_KEY
// environment variables.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/aponysus/bigml"
	"github.com/aponysus/bigml/driver"
	"github.com/aponysus/bigml/internal/jsonl"
	"github.com/aponysus/bigml/resource"
)

// stringList collects the values of a repeatable flag.
type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error { *l = append(*l, v); return nil }

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintln(os.Stderr, "  caused by:", cause)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		script            = flag.String("script", "", "ID of the WhizzML script to run (required)")
		name              = flag.String("name", "", "name for the created executions")
		resourceInputName = flag.String("resource-input-name", "resource", "script input that receives each resource ID")
		maxTasks          = flag.Int("max-tasks", driver.DefaultMaxTasks, "number of executions to keep in flight")
		retryOn           = flag.String("retry-on", "", "recreate executions whose failure message matches this regexp")
		retryCount        = flag.Int("retry-count", 0, "number of retries allowed per resource")
		credentialsPath   = flag.String("credentials", "", "YAML file with BigML credentials")
		verbose           = flag.Bool("v", false, "enable debug logging")

		resources stringList
		inputs    stringList
		outputs   stringList
		tags      stringList
	)
	flag.Var(&resources, "resource", "resource ID to process (repeatable; stdin when absent)")
	flag.Var(&inputs, "input", "extra script input as name=value (repeatable)")
	flag.Var(&outputs, "output", "script output to include in the result (repeatable)")
	flag.Var(&tags, "tag", "tag to attach to each execution (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *script == "" {
		return errors.New("a --script ID is required")
	}
	scriptID, err := resource.NewID[resource.Script](*script)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Script:            scriptID,
		Name:              *name,
		ResourceInputName: *resourceInputName,
		Outputs:           outputs,
		Tags:              tags,
		MaxTasks:          *maxTasks,
		RetryCount:        *retryCount,
	}
	if opts.Name == "" {
		opts.Name = fmt.Sprintf("bigml-parallel %s", uuid.New())
	}
	for _, in := range inputs {
		parsed, err := driver.ParseInput(in)
		if err != nil {
			return err
		}
		opts.Inputs = append(opts.Inputs, parsed)
	}
	if *retryOn != "" {
		opts.RetryOn, err = regexp.Compile(*retryOn)
		if err != nil {
			return fmt.Errorf("invalid --retry-on pattern: %w", err)
		}
	}

	creds, err := loadCredentials(*credentialsPath)
	if err != nil {
		return err
	}
	client, err := bigml.NewClient(creds)
	if err != nil {
		return err
	}
	d, err := driver.New(client, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids, scanErr := resourceIDs(ctx, resources, os.Stdin)
	enc := jsonl.NewEncoder(os.Stdout)
	if err := d.Run(ctx, ids, func(exec *resource.Execution) error {
		return enc.Write(exec)
	}); err != nil {
		return err
	}
	return <-scanErr
}

func loadCredentials(path string) (bigml.Credentials, error) {
	if path != "" {
		return bigml.LoadCredentials(path)
	}
	return bigml.CredentialsFromEnv()
}

// resourceIDs yields the IDs to process: the --resource flags when given,
// otherwise one ID per line of stdin. The error channel reports a stdin
// read failure after the ID channel closes.
func resourceIDs(ctx context.Context, fromFlags []string, stdin io.Reader) (<-chan string, <-chan error) {
	ids := make(chan string, len(fromFlags))
	errc := make(chan error, 1)

	if len(fromFlags) > 0 {
		for _, id := range fromFlags {
			ids <- id
		}
		close(ids)
		errc <- nil
		return ids, errc
	}

	go func() {
		defer close(ids)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case ids <- line:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()
	return ids, errc
}
