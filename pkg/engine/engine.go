// Package engine connects the pacer, the worker pool and the
// aggregator into the load-generation pipeline and owns its shutdown
// protocol.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/volleyload/volley/internal/constants"
	"github.com/volleyload/volley/internal/machine"
	"github.com/volleyload/volley/pkg/metrics"
	"github.com/volleyload/volley/pkg/pacer"
	"github.com/volleyload/volley/pkg/protocols"
)

// Renderer consumes report snapshots. Render is called once per folded
// sample; RenderFinal exactly once, after the sample channel closes.
type Renderer interface {
	Render(metrics.Snapshot)
	RenderFinal(metrics.Snapshot)
}

// Prober supplies machine diagnostics for snapshot enrichment.
type Prober interface {
	Probe() machine.Details
}

type nopRenderer struct{}

func (nopRenderer) Render(metrics.Snapshot)      {}
func (nopRenderer) RenderFinal(metrics.Snapshot) {}

type zeroProber struct{}

func (zeroProber) Probe() machine.Details { return machine.Details{} }

// Engine manages the load testing execution.
type Engine struct {
	attacker protocols.Attacker
	pacer    *pacer.Pacer
	workers  int
	qps      int
	duration time.Duration
	renderer Renderer
	prober   Prober
	log      zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer directs snapshots at a renderer (default: none).
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithProber supplies machine diagnostics (default: all-zero details).
func WithProber(p Prober) Option {
	return func(e *Engine) { e.prober = p }
}

// WithLogger attaches a logger (default: disabled).
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates a load testing engine.
func New(attacker protocols.Attacker, workers, qps int, duration time.Duration, opts ...Option) *Engine {
	e := &Engine{
		attacker: attacker,
		pacer:    pacer.New(qps, duration),
		workers:  workers,
		qps:      qps,
		duration: duration,
		renderer: nopRenderer{},
		prober:   zeroProber{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the full pipeline and blocks until it drains. The
// shutdown order is fixed: the pacer observes the deadline (or the
// cancelled context) and closes the tick channel; workers finish the
// remaining ticks and exit; once the last worker is gone the sample
// channel closes and the aggregator folds whatever is left, so every
// issued request ends up in the returned report.
func (e *Engine) Run(ctx context.Context) *metrics.Report {
	start := time.Now()
	e.log.Info().
		Str("protocol", e.attacker.Name()).
		Int("workers", e.workers).
		Int("qps", e.qps).
		Dur("duration", e.duration).
		Msg("starting load test")

	ticks := make(chan struct{}, max(e.workers, constants.MinTickBuffer))
	samples := make(chan metrics.Sample, constants.SampleBuffer)

	go e.pacer.Run(ctx, start, ticks)

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			e.worker(ctx, id, ticks, samples)
		}(i)
	}

	go func() {
		wg.Wait()
		close(samples)
	}()

	report := metrics.NewReport(start)
	for s := range samples {
		report.Fold(s)
		e.renderer.Render(report.Snapshot(e.duration, e.prober.Probe()))
	}

	report.Touch()
	final := report.Snapshot(e.duration, e.prober.Probe())
	final.Final = true
	e.renderer.RenderFinal(final)

	e.log.Info().
		Int64("total", report.TotalRequests).
		Int64("succeeded", report.Succeeded).
		Int64("failed", report.Failed).
		Msg("load test finished")

	return report
}
