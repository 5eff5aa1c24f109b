package report

import (
	"math"
	"strconv"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/volleyload/volley/pkg/metrics"
)

var (
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	lineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chartLabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// statusCodeChart renders one bar per non-200 status code. Successful
// responses live in the counters panel; this chart exists to make
// failure modes visible at a glance.
func statusCodeChart(codes map[int]int64, width, height int) string {
	data := make([]barchart.BarData, 0, len(codes))
	for _, code := range errorCodes(codes) {
		label := strconv.Itoa(code)
		data = append(data, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: label, Value: float64(codes[code]), Style: barStyle},
			},
		})
	}

	if len(data) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("no error responses")
	}

	bc := barchart.New(width, height)
	bc.PushAll(data)
	bc.Draw()
	return bc.View()
}

// latencyChart renders the p99-over-time series. Bounds follow the
// report: x spans the whole elapsed seconds, y is floor(p99+0.9), the
// next whole second unless p99's fractional part is below 0.1, with a
// floor of 1.
func latencyChart(snap metrics.Snapshot, width, height int) string {
	xmax := math.Floor(snap.ElapsedSeconds)
	if xmax < 1 {
		xmax = 1
	}
	ymax := math.Floor(snap.P99 + 0.9)
	if ymax < 1 {
		ymax = 1
	}

	lc := linechart.New(width, height, 0, xmax, 0, ymax,
		linechart.WithXYSteps(4, 2),
		linechart.WithStyles(axisStyle, chartLabStyle, lineStyle))
	lc.DrawXYAxisAndLabel()

	series := snap.LatencySeries
	for i := 1; i < len(series); i++ {
		lc.DrawBrailleLineWithStyle(
			canvas.Float64Point{X: series[i-1].Elapsed, Y: series[i-1].P99},
			canvas.Float64Point{X: series[i].Elapsed, Y: series[i].P99},
			lineStyle)
	}

	return lc.View()
}
