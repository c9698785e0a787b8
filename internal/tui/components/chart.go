package components

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// BarPoint is one labelled value in a chart demo.
type BarPoint struct {
	Label string
	Value float64
}

var chartLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// RenderBars draws points as a vertical bar chart using accent for the
// bars. Each bar is two cells wide; a label row underneath names them.
// Returns "" when there is nothing to draw or no room.
func RenderBars(points []BarPoint, width, height int, accent string) string {
	if len(points) == 0 || width < 4 || height < 3 {
		return ""
	}
	if accent == "" {
		accent = defaultAccent
	}
	const barWidth, gap = 2, 2
	maxBars := (width + gap) / (barWidth + gap)
	if len(points) > maxBars {
		points = points[len(points)-maxBars:]
	}

	barStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(accent)).
		Background(lipgloss.Color(accent))

	chartH := height - 1 // label row
	bc := barchart.New(len(points)*(barWidth+gap), chartH,
		barchart.WithBarGap(gap),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)
	for _, p := range points {
		bc.Push(barchart.BarData{
			Label: p.Label,
			Values: []barchart.BarValue{
				{Name: p.Label, Value: p.Value, Style: barStyle},
			},
		})
	}
	bc.Draw()

	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = fmt.Sprintf("%-*s", barWidth+gap, truncate(p.Label, barWidth+gap-1))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		bc.View(),
		chartLabelStyle.Render(strings.TrimRight(strings.Join(labels, ""), " ")),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
