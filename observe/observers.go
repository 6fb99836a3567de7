package observe

import (
	"context"
	"time"
)

// Base implements Observer with no-op methods.
//
// Users can embed Base to implement only the callbacks they need.
type Base struct{}

func (Base) OnStart(context.Context, WaitInfo)                {}
func (Base) OnAttempt(context.Context, Attempt)               {}
func (Base) OnSleep(context.Context, WaitInfo, time.Duration) {}
func (Base) OnEnd(context.Context, Result)                    {}

// Multi fans out events to multiple observers.
type Multi struct {
	Observers []Observer
}

func (m Multi) OnStart(ctx context.Context, info WaitInfo) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnStart(ctx, info)
		}
	}
}

func (m Multi) OnAttempt(ctx context.Context, att Attempt) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnAttempt(ctx, att)
		}
	}
}

func (m Multi) OnSleep(ctx context.Context, info WaitInfo, d time.Duration) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnSleep(ctx, info, d)
		}
	}
}

func (m Multi) OnEnd(ctx context.Context, res Result) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnEnd(ctx, res)
		}
	}
}
