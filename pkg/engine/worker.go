package engine

import (
	"context"

	"github.com/volleyload/volley/pkg/metrics"
)

// worker consumes ticks until the tick channel is closed and drained,
// performing one attack and emitting exactly one sample per tick. The
// aggregator keeps the sample channel drained until every worker has
// exited, so the send cannot deadlock.
func (e *Engine) worker(ctx context.Context, id int, ticks <-chan struct{}, samples chan<- metrics.Sample) {
	for range ticks {
		s := e.attacker.Attack(ctx)
		if s.Err != "" {
			e.log.Debug().Int("worker", id).Str("error", s.Err).Msg("request failed")
		}
		samples <- s
	}
}
