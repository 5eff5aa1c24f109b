// Package protocols defines the interface between the worker pool and
// the request implementations behind it.
package protocols

import (
	"context"

	"github.com/volleyload/volley/pkg/metrics"
)

// Attacker is the interface that protocol implementations must satisfy.
type Attacker interface {
	// Attack performs a single request and returns its sample. It
	// must not fail: transport errors are folded into the sample.
	Attack(ctx context.Context) metrics.Sample

	// Name returns the protocol name (e.g., "http", "script").
	Name() string
}
