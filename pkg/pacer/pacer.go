// Package pacer emits work ticks at a target QPS for a bounded
// wall-clock window, without cumulative drift.
package pacer

import (
	"context"
	"time"
)

// Pacer schedules one tick per 1/qps slot for the configured duration.
type Pacer struct {
	qps      int
	duration time.Duration
}

// New creates a pacer. qps and duration must be positive; the config
// layer validates both before the pacer is built.
func New(qps int, duration time.Duration) *Pacer {
	return &Pacer{qps: qps, duration: duration}
}

// Run emits ticks on the channel and closes it when the deadline
// passes or the context is cancelled. Tick i is scheduled at
// start + i/qps; after sending, Run sleeps until the absolute
// timestamp of the next slot rather than a relative interval, so
// scheduler jitter does not accumulate. When the pool cannot keep up
// the bounded channel blocks the send, which is the backpressure
// mechanism: late ticks fire immediately, one per iteration, never in
// bursts.
func (p *Pacer) Run(ctx context.Context, start time.Time, ticks chan<- struct{}) {
	defer close(ticks)

	interval := time.Second / time.Duration(p.qps)
	deadline := start.Add(p.duration)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for i := 0; ; i++ {
		if time.Now().After(deadline) {
			return
		}

		select {
		case ticks <- struct{}{}:
		case <-ctx.Done():
			return
		}

		next := start.Add(time.Duration(i+1) * interval)
		wait := time.Until(next)
		if wait <= 0 {
			continue
		}

		timer.Reset(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}
	}
}
