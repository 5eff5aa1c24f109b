package machine

import (
	"errors"
	"testing"
	"time"
)

const iwDevOutput = `phy#0
	Interface wlp3s0
		ifindex 3
		wdev 0x1
		addr aa:bb:cc:dd:ee:ff
		type managed
`

const iwLinkOutput = `Connected to 11:22:33:44:55:66 (on wlp3s0)
	SSID: corp-5g
	freq: 5180
	RX: 51252 bytes (214 packets)
	TX: 12204 bytes (98 packets)
	signal: -54 dBm
	rx bitrate: 866.7 MBit/s VHT-MCS 9 80MHz short GI VHT-NSS 2
	tx bitrate: 780.0 MBit/s VHT-MCS 8 80MHz short GI VHT-NSS 2
`

func fakeProber(output map[string][]byte, err error) *Prober {
	return &Prober{
		execCommand: func(name string, args ...string) ([]byte, error) {
			if err != nil {
				return nil, err
			}
			key := name
			for _, a := range args {
				key += " " + a
			}
			return output[key], nil
		},
		ttl: time.Second,
	}
}

func TestProbeParsesLinkOutput(t *testing.T) {
	p := fakeProber(map[string][]byte{
		"iw dev":             []byte(iwDevOutput),
		"iw dev wlp3s0 link": []byte(iwLinkOutput),
	}, nil)

	d := p.Probe()

	if d.SSID != "corp-5g" {
		t.Errorf("SSID = %q, want corp-5g", d.SSID)
	}
	if d.FrequencyMHz != 5180 {
		t.Errorf("FrequencyMHz = %d, want 5180", d.FrequencyMHz)
	}
	if d.AvgSignalDBm != -54 {
		t.Errorf("AvgSignalDBm = %d, want -54", d.AvgSignalDBm)
	}
	if d.TxBitrateMbps != 780.0 {
		t.Errorf("TxBitrateMbps = %v, want 780.0", d.TxBitrateMbps)
	}
	if d.RxBitrateMbps != 866.7 {
		t.Errorf("RxBitrateMbps = %v, want 866.7", d.RxBitrateMbps)
	}
}

func TestProbeSourceFailureYieldsZeroWireless(t *testing.T) {
	p := fakeProber(nil, errors.New("iw: command not found"))

	d := p.Probe()

	if d.SSID != "" || d.FrequencyMHz != 0 || d.TxBitrateMbps != 0 || d.RxBitrateMbps != 0 || d.AvgSignalDBm != 0 {
		t.Errorf("expected zero wireless details on source failure, got %+v", d)
	}
}

func TestProbeCachesWithinTTL(t *testing.T) {
	calls := 0
	p := &Prober{
		execCommand: func(name string, args ...string) ([]byte, error) {
			calls++
			return nil, errors.New("unavailable")
		},
		ttl: time.Minute,
	}

	p.Probe()
	first := calls
	p.Probe()

	if calls != first {
		t.Errorf("expected cached probe within TTL, exec calls went %d -> %d", first, calls)
	}
}

func TestParseLinkPartialOutput(t *testing.T) {
	d := parseLink([]byte("Not connected.\n"))
	if d != (Details{}) {
		t.Errorf("expected zero details for disconnected output, got %+v", d)
	}
}
