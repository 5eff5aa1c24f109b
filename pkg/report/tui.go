// Package report renders the live dashboard and the final run
// summaries, text and JSON.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/volleyload/volley/pkg/metrics"
)

// Fixed row heights from the dashboard layout; the chart takes the
// remaining terminal rows.
const (
	gaugeRowHeight  = 3
	errorRowHeight  = 8
	kpiRowHeight    = 12
	defaultTermCols = 80
	defaultTermRows = 32
)

// renderThrottle caps dashboard repaints; samples keep folding at full
// rate, only the Send to the UI is conflated.
const renderThrottle = 50 * time.Millisecond

// SnapshotMsg carries a fresh report snapshot into the UI.
type SnapshotMsg metrics.Snapshot

// FinalMsg carries the last snapshot; the UI quits after storing it.
type FinalMsg metrics.Snapshot

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model for the live dashboard.
type Model struct {
	snap     metrics.Snapshot
	progress progress.Model
	cancel   func()

	width    int
	height   int
	quitting bool
}

// NewModel creates the dashboard model. cancel is invoked on q/ctrl+c
// and starts the same graceful shutdown as the test deadline; the UI
// itself quits only once the final snapshot arrives.
func NewModel(cancel func()) Model {
	return Model{
		progress: progress.New(progress.WithDefaultGradient()),
		cancel:   cancel,
		width:    defaultTermCols,
		height:   defaultTermRows,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles UI messages and updates the state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			if !m.quitting {
				m.quitting = true
				m.cancel()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		m.snap = metrics.Snapshot(msg)
		return m, nil

	case FinalMsg:
		m.snap = metrics.Snapshot(msg)
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the dashboard: progress gauge, error histogram and
// machine details, counters and percentiles, latency chart.
func (m Model) View() string {
	if m.quitting && m.snap.Final {
		// The terminal is handed back; the final text report is
		// printed by the caller after the program exits.
		return ""
	}

	half := m.width / 2

	rows := []string{
		m.gaugeRow(),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.panel("Error Codes", m.errorHistogram(half), half, errorRowHeight),
			m.panel("Machine", m.machineList(), m.width-half, errorRowHeight),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.panel("Requests", m.counterList(), half, kpiRowHeight),
			m.panel("Latency Percentiles", m.percentileList(), m.width-half, kpiRowHeight),
		),
		m.chartRow(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) gaugeRow() string {
	label := fmt.Sprintf("%ds / %ds", int(m.snap.ElapsedSeconds), int(m.snap.Duration.Seconds()))

	bar := m.progress
	bar.Width = max(m.width-len(label)-8, 10)

	content := lipgloss.JoinHorizontal(lipgloss.Center,
		bar.ViewAs(m.snap.Progress), " ", labelStyle.Render(label))
	return m.panel("Progress", content, m.width, gaugeRowHeight)
}

func (m Model) errorHistogram(width int) string {
	return statusCodeChart(m.snap.StatusCodes, max(width-4, 10), errorRowHeight-2)
}

func (m Model) machineList() string {
	d := m.snap.Machine
	rows := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("SSID:"), d.SSID),
		fmt.Sprintf("%s %d MHz", labelStyle.Render("Frequency:"), d.FrequencyMHz),
		fmt.Sprintf("%s %.1f Mb/s", labelStyle.Render("TX Bitrate:"), d.TxBitrateMbps),
		fmt.Sprintf("%s %.1f Mb/s", labelStyle.Render("RX Bitrate:"), d.RxBitrateMbps),
		fmt.Sprintf("%s %d dBm", labelStyle.Render("Avg Signal:"), d.AvgSignalDBm),
	}
	if d.Hostname != "" {
		rows = append(rows, fmt.Sprintf("%s %s (cpu %.0f%%)", labelStyle.Render("Host:"), d.Hostname, d.CPUPercent))
	}
	return strings.Join(rows, "\n")
}

func (m Model) counterList() string {
	rows := make([]string, 0, 4)
	for _, k := range counterKPIs(m.snap) {
		rows = append(rows, fmt.Sprintf("%-18s %s", labelStyle.Render(k.Name), k.Value))
	}
	return strings.Join(rows, "\n")
}

func (m Model) percentileList() string {
	rows := make([]string, 0, 3)
	for _, k := range percentileKPIs(m.snap) {
		rows = append(rows, fmt.Sprintf("%-13s %ss", labelStyle.Render(k.Name), k.Value))
	}
	return strings.Join(rows, "\n")
}

func (m Model) chartRow() string {
	chartHeight := max(m.height-gaugeRowHeight-errorRowHeight-kpiRowHeight-2, 6)
	body := lipgloss.JoinVertical(lipgloss.Left,
		latencyChart(m.snap, max(m.width-6, 20), chartHeight-2),
		labelStyle.Render("time (sec)"),
	)
	return m.panel("p99 latency", body, m.width, chartHeight)
}

// panel wraps content in a bordered box with a styled title line.
func (m Model) panel(title, content string, width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content)
	return panelStyle.Width(max(width-2, 10)).Height(max(height-2, 1)).Render(body)
}

// Renderer adapts the engine's snapshot stream onto a running
// bubbletea program. Render conflates bursts so the UI never lags the
// test; the final snapshot is always delivered.
type Renderer struct {
	program  *tea.Program
	lastSend time.Time
}

// NewRenderer creates a renderer bound to a program.
func NewRenderer(p *tea.Program) *Renderer {
	return &Renderer{program: p}
}

// Render implements engine.Renderer. It is called from the single
// aggregator goroutine, so no locking is needed.
func (r *Renderer) Render(snap metrics.Snapshot) {
	if time.Since(r.lastSend) < renderThrottle {
		return
	}
	r.lastSend = time.Now()
	r.program.Send(SnapshotMsg(snap))
}

// RenderFinal implements engine.Renderer.
func (r *Renderer) RenderFinal(snap metrics.Snapshot) {
	r.program.Send(FinalMsg(snap))
}
