// Package machine reads best-effort wireless and host diagnostics for
// the dashboard. Every failure path yields zero values; a missing data
// source must never disturb a running test.
package machine

import (
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

// Details is a snapshot of local wireless-interface and host diagnostics.
type Details struct {
	SSID          string
	FrequencyMHz  int
	TxBitrateMbps float64
	RxBitrateMbps float64
	AvgSignalDBm  int

	Hostname   string
	CPUPercent float64
}

var (
	reInterface = regexp.MustCompile(`(?m)^\s*Interface\s+(\S+)`)
	reSSID      = regexp.MustCompile(`(?m)^\s*SSID:\s*(.+)$`)
	reFreq      = regexp.MustCompile(`(?m)^\s*freq:\s*([0-9.]+)`)
	reSignal    = regexp.MustCompile(`(?m)^\s*signal:\s*(-?\d+)\s*dBm`)
	reTxBitrate = regexp.MustCompile(`(?m)^\s*tx bitrate:\s*([0-9.]+)\s*MBit/s`)
	reRxBitrate = regexp.MustCompile(`(?m)^\s*rx bitrate:\s*([0-9.]+)\s*MBit/s`)
)

// Prober queries the wireless stack through the iw command and caches
// the result briefly so that per-sample probing stays cheap.
type Prober struct {
	execCommand func(name string, args ...string) ([]byte, error)
	ttl         time.Duration

	mu      sync.Mutex
	cached  Details
	fetched time.Time
}

// NewProber creates a prober backed by the real iw binary.
func NewProber() *Prober {
	return &Prober{
		execCommand: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
		ttl: time.Second,
	}
}

// Probe returns the current diagnostics, refreshing the cache when it
// is older than the prober TTL. It never returns an error; unavailable
// sources map to zero values.
func (p *Prober) Probe() Details {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.fetched) < p.ttl {
		return p.cached
	}

	p.cached = p.read()
	p.fetched = time.Now()
	return p.cached
}

func (p *Prober) read() Details {
	var d Details

	if out, err := p.execCommand("iw", "dev"); err == nil {
		if m := reInterface.FindSubmatch(out); m != nil {
			ifname := string(m[1])
			if link, err := p.execCommand("iw", "dev", ifname, "link"); err == nil {
				d = parseLink(link)
			}
		}
	}

	if info, err := host.Info(); err == nil {
		d.Hostname = info.Hostname
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		d.CPUPercent = pct[0]
	}

	return d
}

// parseLink extracts the wireless fields from `iw dev <ifc> link` output.
func parseLink(out []byte) Details {
	var d Details

	if m := reSSID.FindSubmatch(out); m != nil {
		d.SSID = strings.TrimSpace(string(m[1]))
	}
	if m := reFreq.FindSubmatch(out); m != nil {
		if f, err := strconv.ParseFloat(string(m[1]), 64); err == nil {
			d.FrequencyMHz = int(f)
		}
	}
	if m := reSignal.FindSubmatch(out); m != nil {
		if v, err := strconv.Atoi(string(m[1])); err == nil {
			d.AvgSignalDBm = v
		}
	}
	if m := reTxBitrate.FindSubmatch(out); m != nil {
		if v, err := strconv.ParseFloat(string(m[1]), 64); err == nil {
			d.TxBitrateMbps = v
		}
	}
	if m := reRxBitrate.FindSubmatch(out); m != nil {
		if v, err := strconv.ParseFloat(string(m[1]), 64); err == nil {
			d.RxBitrateMbps = v
		}
	}

	return d
}
