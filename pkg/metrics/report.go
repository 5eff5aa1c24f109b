package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/volleyload/volley/internal/machine"
)

// SeriesPoint is one (elapsed seconds, p99 seconds) observation on the
// latency chart.
type SeriesPoint struct {
	Elapsed float64
	P99     float64
}

// Report is the running aggregate of all Samples received so far. It
// is owned exclusively by the aggregator goroutine; no locking.
type Report struct {
	Succeeded     int64
	Failed        int64
	TotalRequests int64

	// ElapsedSeconds is refreshed on every fold.
	ElapsedSeconds float64

	// TransactionRate is the mean seconds per request, the inverse of
	// throughput. The name is historical.
	TransactionRate float64

	// LatencySamples holds every positive request duration in seconds,
	// append-only.
	LatencySamples []float64

	// LatencySeries holds one (elapsed, p99) point per folded Sample,
	// append-only, bounded by the test duration.
	LatencySeries []SeriesPoint

	// StatusCodes counts responses per HTTP status code.
	StatusCodes map[int]int64

	P99 float64
	P95 float64
	P90 float64

	start time.Time

	// hist mirrors the latency stream at microsecond resolution and
	// backs the mean/max figures in the final report.
	hist *hdrhistogram.Histogram
}

// NewReport creates an empty report for a test that started at the
// given instant.
func NewReport(start time.Time) *Report {
	return &Report{
		StatusCodes: make(map[int]int64),
		start:       start,
		hist:        hdrhistogram.New(1, int64(time.Hour/time.Microsecond), 3),
	}
}

// Fold merges one Sample into the report and refreshes the derived
// fields: elapsed time, transaction rate, percentiles and the latency
// series.
func (r *Report) Fold(s Sample) {
	r.Succeeded += s.Succeeded
	r.Failed += s.Failed
	r.TotalRequests += s.TotalRequests

	if s.Duration > 0 {
		r.LatencySamples = append(r.LatencySamples, s.Duration.Seconds())
		_ = r.hist.RecordValue(s.Duration.Microseconds())
	}
	if s.StatusCode != 0 {
		r.StatusCodes[s.StatusCode]++
	}

	r.ElapsedSeconds = time.Since(r.start).Seconds()
	r.TransactionRate = r.ElapsedSeconds / float64(max(r.TotalRequests, 1))

	r.P99, r.P95, r.P90 = Percentiles(r.LatencySamples)
	r.LatencySeries = append(r.LatencySeries, SeriesPoint{Elapsed: r.ElapsedSeconds, P99: r.P99})
}

// Touch refreshes the elapsed clock and transaction rate without
// folding a sample, for the final repaint after the channel closes.
func (r *Report) Touch() {
	r.ElapsedSeconds = time.Since(r.start).Seconds()
	r.TransactionRate = r.ElapsedSeconds / float64(max(r.TotalRequests, 1))
}

// MeanLatency returns the mean request duration.
func (r *Report) MeanLatency() time.Duration {
	return time.Duration(r.hist.Mean()) * time.Microsecond
}

// MaxLatency returns the largest request duration observed.
func (r *Report) MaxLatency() time.Duration {
	return time.Duration(r.hist.Max()) * time.Microsecond
}

// Snapshot is an immutable copy of the report state handed to the
// renderer, enriched with machine diagnostics and progress.
type Snapshot struct {
	Succeeded       int64
	Failed          int64
	TotalRequests   int64
	ElapsedSeconds  float64
	TransactionRate float64

	P99 float64
	P95 float64
	P90 float64

	LatencySeries []SeriesPoint
	StatusCodes   map[int]int64

	MeanLatency time.Duration
	MaxLatency  time.Duration

	Machine machine.Details

	// Progress is elapsed/duration clamped to [0, 1].
	Progress float64
	Duration time.Duration

	// Final marks the last snapshot of the run.
	Final bool
}

// Snapshot copies the report state for rendering. The series and
// status-code map are deep-copied so the renderer never observes a
// mutation.
func (r *Report) Snapshot(duration time.Duration, m machine.Details) Snapshot {
	series := make([]SeriesPoint, len(r.LatencySeries))
	copy(series, r.LatencySeries)

	codes := make(map[int]int64, len(r.StatusCodes))
	for code, n := range r.StatusCodes {
		codes[code] = n
	}

	progress := 0.0
	if duration > 0 {
		progress = min(max(r.ElapsedSeconds/duration.Seconds(), 0), 1)
	}

	return Snapshot{
		Succeeded:       r.Succeeded,
		Failed:          r.Failed,
		TotalRequests:   r.TotalRequests,
		ElapsedSeconds:  r.ElapsedSeconds,
		TransactionRate: r.TransactionRate,
		P99:             r.P99,
		P95:             r.P95,
		P90:             r.P90,
		LatencySeries:   series,
		StatusCodes:     codes,
		MeanLatency:     r.MeanLatency(),
		MaxLatency:      r.MaxLatency(),
		Machine:         m,
		Progress:        progress,
		Duration:        duration,
	}
}
