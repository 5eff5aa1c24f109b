package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/volleyload/volley/pkg/metrics"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#5F87D7")).
	Padding(0, 1)

// StartBanner returns the headless-mode run header.
func StartBanner(target string, qps, workers int, duration time.Duration) string {
	s := strings.Builder{}
	s.WriteString("Starting load test (headless mode)...\n")
	s.WriteString(fmt.Sprintf("Target: %s\nQPS: %d\nDuration: %s\nWorkers: %d\n\n", target, qps, duration, workers))
	return s.String()
}

// GenerateTextReport creates the final summary string from the last
// snapshot of a run.
func GenerateTextReport(snap metrics.Snapshot) string {
	s := strings.Builder{}
	s.WriteString("\n")
	s.WriteString(bannerStyle.Render(" TEST COMPLETED "))
	s.WriteString("\n\n")

	for _, k := range counterKPIs(snap) {
		s.WriteString(fmt.Sprintf("  %-18s %s\n", k.Name+":", k.Value))
	}
	s.WriteString(fmt.Sprintf("  %-18s %.2fs\n", "Elapsed:", snap.ElapsedSeconds))

	if snap.TotalRequests > 0 {
		s.WriteString("\n")
		for _, k := range percentileKPIs(snap) {
			s.WriteString(fmt.Sprintf("  %-18s %ss\n", k.Name+":", k.Value))
		}
		s.WriteString(fmt.Sprintf("  %-18s %v\n", "Mean Latency:", snap.MeanLatency))
		s.WriteString(fmt.Sprintf("  %-18s %v\n", "Max Latency:", snap.MaxLatency))
	}

	if codes := errorCodes(snap.StatusCodes); len(codes) > 0 {
		s.WriteString("\n  Error codes:\n")
		for _, c := range codes {
			s.WriteString(fmt.Sprintf("    %d: %d\n", c, snap.StatusCodes[c]))
		}
	}
	s.WriteString("\n")

	return s.String()
}

// counterKPIs builds the request-counter panel rows.
func counterKPIs(snap metrics.Snapshot) []KPI {
	return []KPI{
		{Name: "Total Requests", Value: Int(snap.TotalRequests)},
		{Name: "Succeeded", Value: Int(snap.Succeeded)},
		{Name: "Failed", Value: Int(snap.Failed)},
		{Name: "Transaction Rate", Value: Float(snap.TransactionRate)},
	}
}

// percentileKPIs builds the latency panel rows, in seconds.
func percentileKPIs(snap metrics.Snapshot) []KPI {
	return []KPI{
		{Name: "p99 Latency", Value: Float(snap.P99)},
		{Name: "p95 Latency", Value: Float(snap.P95)},
		{Name: "p90 Latency", Value: Float(snap.P90)},
	}
}

// errorCodes returns the non-200 status codes in ascending order.
func errorCodes(codes map[int]int64) []int {
	out := make([]int, 0, len(codes))
	for c := range codes {
		if c != 200 {
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}
