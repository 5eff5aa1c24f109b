// Package loadhttp implements the HTTP GET load protocol.
package loadhttp

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/volleyload/volley/pkg/metrics"
	"github.com/volleyload/volley/pkg/protocols"
)

// Attacker issues GET requests against a fixed URL.
type Attacker struct {
	client *http.Client
	url    string
}

// NewAttacker creates a new HTTP Attacker. A zero timeout leaves the
// client default in place. The client is shared by all workers; the
// transport is sized so the pool never starves for connections.
func NewAttacker(url string, timeout time.Duration, insecure bool) protocols.Attacker {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure},
		MaxIdleConns:    1000,
		MaxConnsPerHost: 1000,
	}

	return &Attacker{
		client: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
		url: url,
	}
}

// Name returns the name of the protocol.
func (h *Attacker) Name() string {
	return "http"
}

// Attack performs a single GET and times it from just before dispatch
// to just after the result, error paths included.
func (h *Attacker) Attack(ctx context.Context) metrics.Sample {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return metrics.NewSample(0, time.Since(start), err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return metrics.NewSample(0, time.Since(start), err)
	}

	// Drain so the connection can be reused; the payload itself is
	// not recorded.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return metrics.NewSample(resp.StatusCode, time.Since(start), nil)
}
