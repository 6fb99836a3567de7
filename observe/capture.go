package observe

import (
	"context"
	"sync"
	"time"
)

// Capture records every event it receives. It is primarily a test helper.
//
// Unlike most observers it is safe for concurrent use, so a single Capture
// can be shared across parallel wait calls.
type Capture struct {
	mu       sync.Mutex
	starts   []WaitInfo
	attempts []Attempt
	sleeps   []time.Duration
	results  []Result
}

func (c *Capture) OnStart(_ context.Context, info WaitInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts = append(c.starts, info)
}

func (c *Capture) OnAttempt(_ context.Context, att Attempt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts = append(c.attempts, att)
}

func (c *Capture) OnSleep(_ context.Context, _ WaitInfo, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
}

func (c *Capture) OnEnd(_ context.Context, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
}

// Starts returns a copy of the recorded start events.
func (c *Capture) Starts() []WaitInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]WaitInfo(nil), c.starts...)
}

// Attempts returns a copy of the recorded attempts.
func (c *Capture) Attempts() []Attempt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Attempt(nil), c.attempts...)
}

// Sleeps returns a copy of the recorded sleep durations.
func (c *Capture) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// Results returns a copy of the recorded final results.
func (c *Capture) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}
