package observe_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aponysus/bigml/observe"
)

func TestBaseHandlesEvents(t *testing.T) {
	obs := observe.Base{}
	ctx := context.Background()
	info := observe.WaitInfo{Label: "op"}

	obs.OnStart(ctx, info)
	obs.OnAttempt(ctx, observe.Attempt{Info: info, Seq: 0})
	obs.OnSleep(ctx, info, time.Second)
	obs.OnEnd(ctx, observe.Result{Info: info, Attempts: 1})
}

func TestMultiFansOut(t *testing.T) {
	var a, b observe.Capture
	multi := observe.Multi{Observers: []observe.Observer{&a, nil, &b}}
	ctx := context.Background()
	info := observe.WaitInfo{Label: "op"}

	multi.OnStart(ctx, info)
	multi.OnAttempt(ctx, observe.Attempt{Info: info, Outcome: observe.OutcomeWaiting})
	multi.OnSleep(ctx, info, 2*time.Second)
	multi.OnEnd(ctx, observe.Result{Info: info, Attempts: 1})

	for name, c := range map[string]*observe.Capture{"first": &a, "second": &b} {
		if len(c.Starts()) != 1 || len(c.Attempts()) != 1 || len(c.Sleeps()) != 1 || len(c.Results()) != 1 {
			t.Errorf("%s observer missed events: %d/%d/%d/%d",
				name, len(c.Starts()), len(c.Attempts()), len(c.Sleeps()), len(c.Results()))
		}
	}
}

func TestCaptureRecordsInOrder(t *testing.T) {
	var c observe.Capture
	ctx := context.Background()
	info := observe.WaitInfo{Label: "op", AllowedErrors: 2}

	c.OnStart(ctx, info)
	c.OnAttempt(ctx, observe.Attempt{Info: info, Seq: 0, Outcome: observe.OutcomeTemporaryFailure, ErrorsSeen: 1})
	c.OnSleep(ctx, info, 4*time.Second)
	c.OnAttempt(ctx, observe.Attempt{Info: info, Seq: 1, Outcome: observe.OutcomeFinished})
	c.OnEnd(ctx, observe.Result{Info: info, Attempts: 2})

	atts := c.Attempts()
	if len(atts) != 2 {
		t.Fatalf("recorded %d attempts, want 2", len(atts))
	}
	if atts[0].Outcome != observe.OutcomeTemporaryFailure || atts[1].Outcome != observe.OutcomeFinished {
		t.Errorf("outcomes = %v, %v", atts[0].Outcome, atts[1].Outcome)
	}
	if sleeps := c.Sleeps(); len(sleeps) != 1 || sleeps[0] != 4*time.Second {
		t.Errorf("sleeps = %v, want one 4s sleep", sleeps)
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome observe.Outcome
		want    string
	}{
		{observe.OutcomeFinished, "finished"},
		{observe.OutcomeWaiting, "waiting"},
		{observe.OutcomeTemporaryFailure, "failed_temporarily"},
		{observe.OutcomePermanentFailure, "failed_permanently"},
		{observe.OutcomeUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}

func TestPrometheusObserverCountsEvents(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs := observe.NewPrometheusObserver(registry, "bigml")
	ctx := context.Background()
	info := observe.WaitInfo{Label: "execution/123"}
	start := time.Now()

	obs.OnStart(ctx, info)
	obs.OnAttempt(ctx, observe.Attempt{Info: info, Outcome: observe.OutcomeWaiting})
	obs.OnSleep(ctx, info, 4*time.Second)
	obs.OnAttempt(ctx, observe.Attempt{Info: info, Outcome: observe.OutcomeFinished})
	obs.OnEnd(ctx, observe.Result{Info: info, Start: start, End: start.Add(8 * time.Second)})
	obs.OnEnd(ctx, observe.Result{Info: info, Start: start, End: start.Add(time.Second), Err: errors.New("boom")})

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
	}
	for _, name := range []string{
		"bigml_wait_attempts_total",
		"bigml_wait_sleeps_total",
		"bigml_wait_duration_seconds",
		"bigml_wait_calls_total",
	} {
		if !found[name] {
			t.Errorf("metric %s was not registered", name)
		}
	}
}

func TestNewPrometheusObserverWithoutRegistry(t *testing.T) {
	obs := observe.NewPrometheusObserver(nil, "bigml")
	obs.OnAttempt(context.Background(), observe.Attempt{Outcome: observe.OutcomeFinished})
}
