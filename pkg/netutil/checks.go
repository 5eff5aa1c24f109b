// Package netutil provides preflight checks run before the load test
// starts, so misconfiguration fails fast instead of as a wall of
// failed samples.
package netutil

import (
	"fmt"
	"net"
	"net/url"
	"syscall"
)

// PreflightDNS validates that the URL is well-formed and its host resolves.
func PreflightDNS(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("missing host in url")
	}

	if _, err := net.LookupHost(host); err != nil {
		return fmt.Errorf("dns resolution failed for host %q: %w", host, err)
	}
	return nil
}

// CheckUlimitWarning inspects the soft RLIMIT_NOFILE and returns a
// warning if the worker pool could exhaust it. Best effort; a failed
// rlimit read stays silent.
func CheckUlimitWarning(concurrency int) error {
	if concurrency <= 0 {
		return nil
	}

	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return nil
	}

	if uint64(concurrency) > rLimit.Cur {
		return fmt.Errorf("concurrency (%d) exceeds soft open-files limit (%d)", concurrency, rLimit.Cur)
	}

	return nil
}
