package bigml

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aponysus/bigml/observe"
	"github.com/aponysus/bigml/resource"
	"github.com/aponysus/bigml/wait"
)

func newPollClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	engine := wait.NewEngine(wait.WithSleep(func(ctx context.Context, _ time.Duration) error {
		return ctx.Err()
	}))
	client, err := NewClient(Credentials{
		Username: "alice",
		APIKey:   "secret123",
		Endpoint: server.URL,
	}, WithWaitEngine(engine))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func sourcePayload(code resource.Code, message string) string {
	return fmt.Sprintf(`{"resource": "source/0123456789abcdef01234567",
		"status": {"code": %d, "message": %q}}`, code, message)
}

func TestWaitForResourcePollsUntilReady(t *testing.T) {
	var calls atomic.Int32
	client := newPollClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			fmt.Fprint(w, sourcePayload(resource.CodeQueued, "queued"))
		case 2:
			fmt.Fprint(w, sourcePayload(resource.CodeInProgress, "working"))
		default:
			fmt.Fprint(w, sourcePayload(resource.CodeFinished, "done"))
		}
	}))

	id := resource.ID[resource.Source]("source/0123456789abcdef01234567")
	src, err := WaitForResource(context.Background(), client, id)
	if err != nil {
		t.Fatalf("WaitForResource: %v", err)
	}
	if !src.Status.Code.IsReady() {
		t.Errorf("returned resource has status %v, want finished", src.Status.Code)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("polled %d times, want 3", got)
	}
}

func TestWaitForResourceFailsPermanentlyOnFaultyStatus(t *testing.T) {
	var calls atomic.Int32
	client := newPollClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, sourcePayload(resource.CodeFaulty, "bad file format"))
	}))

	id := resource.ID[resource.Source]("source/0123456789abcdef01234567")
	_, err := WaitForResource(context.Background(), client, id)
	var berr *Error
	if !errors.As(err, &berr) || berr.Kind != ErrKindWaitFailed {
		t.Fatalf("got %v, want a wait-failed error", err)
	}
	want := "https://bigml.com/dashboard/source/0123456789abcdef01234567 failed (bad file format)"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("polled %d times after a faulty status, want 1", got)
	}
}

func TestWaitForResourceToleratesTransientServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newPollClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "blip", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, sourcePayload(resource.CodeFinished, "done"))
	}))

	id := resource.ID[resource.Source]("source/0123456789abcdef01234567")
	if _, err := WaitForResource(context.Background(), client, id); err != nil {
		t.Fatalf("WaitForResource: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("polled %d times, want 3", got)
	}
}

func TestWaitForResourceExhaustsErrorBudget(t *testing.T) {
	var calls atomic.Int32
	client := newPollClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down hard", http.StatusServiceUnavailable)
	}))

	id := resource.ID[resource.Source]("source/0123456789abcdef01234567")
	opts := wait.NewOptions().BackoffType(wait.Exponential).AllowedErrors(2)
	_, err := WaitForResourceOpt(context.Background(), client, id, opts, nil)
	var berr *Error
	if !errors.As(err, &berr) || berr.Kind != ErrKindUnexpectedHTTPStatus {
		t.Fatalf("got %v, want the last unexpected-status error", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("polled %d times with 2 allowed errors, want 3", got)
	}
}

func TestWaitForResourceProgressCallback(t *testing.T) {
	var calls atomic.Int32
	client := newPollClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			fmt.Fprint(w, sourcePayload(resource.CodeStarted, "working"))
			return
		}
		fmt.Fprint(w, sourcePayload(resource.CodeFinished, "done"))
	}))

	var seen []resource.Code
	id := resource.ID[resource.Source]("source/0123456789abcdef01234567")
	_, err := WaitForResourceOpt(context.Background(), client, id, nil,
		func(src *resource.Source) error {
			seen = append(seen, src.Status.Code)
			return nil
		})
	if err != nil {
		t.Fatalf("WaitForResourceOpt: %v", err)
	}
	if len(seen) != 2 || !seen[1].IsReady() {
		t.Errorf("progress saw codes %v, want working then finished", seen)
	}
}

func TestWaitForResourceOptPreservesCallerOptions(t *testing.T) {
	client := newPollClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sourcePayload(resource.CodeFinished, "done"))
	}))

	capture := &observe.Capture{}
	engine := wait.NewEngine(
		wait.WithObserver(capture),
		wait.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
	)

	shared := wait.NewOptions().Label("shared").AllowedErrors(1)
	id := resource.ID[resource.Source]("source/0123456789abcdef01234567")
	if _, err := WaitForResourceOpt(context.Background(), client, id, shared, nil); err != nil {
		t.Fatalf("WaitForResourceOpt: %v", err)
	}

	// Reusing the same options afterwards must still carry the caller's
	// own label, not the last polled resource's.
	_, err := wait.For(context.Background(), engine, shared, func(context.Context) wait.Status[int] {
		return wait.Finished(1)
	})
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	starts := capture.Starts()
	if len(starts) != 1 {
		t.Fatalf("recorded %d starts, want 1", len(starts))
	}
	if starts[0].Label != "shared" {
		t.Errorf("label = %q after a poll reused the options, want %q", starts[0].Label, "shared")
	}
}

func TestWaitForResourceProgressErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	client := newPollClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, sourcePayload(resource.CodeStarted, "working"))
	}))

	sentinel := errors.New("caller gave up")
	id := resource.ID[resource.Source]("source/0123456789abcdef01234567")
	_, err := WaitForResourceOpt(context.Background(), client, id, nil,
		func(*resource.Source) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want the callback error", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("polled %d times after a callback error, want 1", got)
	}
}
