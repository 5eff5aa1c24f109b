// Package metrics provides the per-request sample model, the running
// report it folds into, and latency percentile computation.
package metrics

import "time"

// Sample is the record of one completed request attempt. Exactly one
// of Succeeded/Failed is 1 and TotalRequests is always 1.
type Sample struct {
	Succeeded     int64
	Failed        int64
	TotalRequests int64

	// Duration is the wall-clock time from just before dispatch to
	// just after the result, success or error.
	Duration time.Duration

	// StatusCode is the HTTP status, or 0 on transport error.
	StatusCode int

	// Err carries the transport error text for the debug log.
	Err string
}

// NewSample classifies one request outcome. A request succeeds iff it
// completed without transport error and returned status 200 exactly.
func NewSample(statusCode int, duration time.Duration, err error) Sample {
	s := Sample{
		TotalRequests: 1,
		Duration:      duration,
		StatusCode:    statusCode,
	}

	if err != nil {
		s.Failed = 1
		s.StatusCode = 0
		s.Err = err.Error()
		return s
	}

	if statusCode == 200 {
		s.Succeeded = 1
	} else {
		s.Failed = 1
	}
	return s
}
