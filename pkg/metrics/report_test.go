package metrics

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/volleyload/volley/internal/machine"
)

func TestNewSampleClassification(t *testing.T) {
	cases := []struct {
		name       string
		code       int
		err        error
		succeeded  int64
		failed     int64
		wantCode   int
	}{
		{name: "status 200", code: 200, succeeded: 1, wantCode: 200},
		{name: "status 500", code: 500, failed: 1, wantCode: 500},
		{name: "status 404", code: 404, failed: 1, wantCode: 404},
		{name: "status 201 is not success", code: 201, failed: 1, wantCode: 201},
		{name: "transport error", err: errors.New("connection refused"), failed: 1, wantCode: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSample(tc.code, 5*time.Millisecond, tc.err)
			if s.Succeeded != tc.succeeded || s.Failed != tc.failed {
				t.Errorf("got succeeded=%d failed=%d, want %d/%d", s.Succeeded, s.Failed, tc.succeeded, tc.failed)
			}
			if s.Succeeded+s.Failed != 1 {
				t.Errorf("succeeded+failed = %d, want 1", s.Succeeded+s.Failed)
			}
			if s.TotalRequests != 1 {
				t.Errorf("TotalRequests = %d, want 1", s.TotalRequests)
			}
			if s.StatusCode != tc.wantCode {
				t.Errorf("StatusCode = %d, want %d", s.StatusCode, tc.wantCode)
			}
			if s.Duration != 5*time.Millisecond {
				t.Errorf("Duration = %v", s.Duration)
			}
		})
	}
}

func TestReportFoldInvariants(t *testing.T) {
	r := NewReport(time.Now())

	r.Fold(NewSample(200, 10*time.Millisecond, nil))
	r.Fold(NewSample(500, 20*time.Millisecond, nil))
	r.Fold(NewSample(0, 3*time.Millisecond, errors.New("reset by peer")))

	if r.Succeeded+r.Failed != r.TotalRequests {
		t.Errorf("succeeded(%d)+failed(%d) != total(%d)", r.Succeeded, r.Failed, r.TotalRequests)
	}
	if r.Succeeded != 1 || r.Failed != 2 || r.TotalRequests != 3 {
		t.Errorf("counters = %d/%d/%d, want 1/2/3", r.Succeeded, r.Failed, r.TotalRequests)
	}
	if len(r.LatencySamples) != 3 {
		t.Errorf("len(LatencySamples) = %d, want 3", len(r.LatencySamples))
	}
	for _, v := range r.LatencySamples {
		if v <= 0 {
			t.Errorf("latency sample %v is not strictly positive", v)
		}
	}
	if r.StatusCodes[200] != 1 || r.StatusCodes[500] != 1 {
		t.Errorf("StatusCodes = %v", r.StatusCodes)
	}
	if _, ok := r.StatusCodes[0]; ok {
		t.Error("transport error must not record a status code")
	}
	if len(r.LatencySeries) != 3 {
		t.Errorf("len(LatencySeries) = %d, want 3", len(r.LatencySeries))
	}
}

func TestReportFoldCommutative(t *testing.T) {
	samples := make([]Sample, 0, 200)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		code := 200
		if rng.Intn(3) == 0 {
			code = 500
		}
		samples = append(samples, NewSample(code, time.Duration(rng.Intn(50)+1)*time.Millisecond, nil))
	}

	a := NewReport(time.Now())
	for _, s := range samples {
		a.Fold(s)
	}

	shuffled := make([]Sample, len(samples))
	copy(shuffled, samples)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	b := NewReport(time.Now())
	for _, s := range shuffled {
		b.Fold(s)
	}

	if a.Succeeded != b.Succeeded || a.Failed != b.Failed || a.TotalRequests != b.TotalRequests {
		t.Errorf("fold is not commutative: %d/%d/%d vs %d/%d/%d",
			a.Succeeded, a.Failed, a.TotalRequests, b.Succeeded, b.Failed, b.TotalRequests)
	}
	for code, n := range a.StatusCodes {
		if b.StatusCodes[code] != n {
			t.Errorf("status %d: %d vs %d", code, n, b.StatusCodes[code])
		}
	}
}

func TestReportSeriesMonotoneElapsed(t *testing.T) {
	r := NewReport(time.Now())
	for i := 0; i < 50; i++ {
		r.Fold(NewSample(200, time.Millisecond, nil))
	}

	prev := -1.0
	for _, p := range r.LatencySeries {
		if p.Elapsed < prev {
			t.Fatalf("series elapsed went backwards: %v after %v", p.Elapsed, prev)
		}
		prev = p.Elapsed
	}
}

func TestReportTransactionRate(t *testing.T) {
	start := time.Now().Add(-10 * time.Second)
	r := NewReport(start)
	for i := 0; i < 5; i++ {
		r.Fold(NewSample(200, time.Millisecond, nil))
	}

	want := r.ElapsedSeconds / 5
	if r.TransactionRate != want {
		t.Errorf("TransactionRate = %v, want %v", r.TransactionRate, want)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	r := NewReport(time.Now())
	r.Fold(NewSample(200, time.Millisecond, nil))

	snap := r.Snapshot(time.Minute, machine.Details{})
	r.Fold(NewSample(500, time.Millisecond, nil))

	if len(snap.LatencySeries) != 1 {
		t.Errorf("snapshot series mutated after fold: len=%d", len(snap.LatencySeries))
	}
	if _, ok := snap.StatusCodes[500]; ok {
		t.Error("snapshot status map mutated after fold")
	}
	if snap.TotalRequests != 1 {
		t.Errorf("snapshot TotalRequests = %d, want 1", snap.TotalRequests)
	}
}

func TestSnapshotProgressClamped(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	r := NewReport(start)
	r.Fold(NewSample(200, time.Millisecond, nil))

	snap := r.Snapshot(time.Second, machine.Details{})
	if snap.Progress != 1 {
		t.Errorf("Progress = %v, want clamped to 1", snap.Progress)
	}
}
