// Package panels provides the header and footer bars of the showcase TUI.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
// State is passed as strings so this package does not import sequencer.
type HeaderProps struct {
	ProjectName string
	DemoTitle   string
	StateSymbol string // e.g. "●", "⟳", "✓"
	StateLabel  string // e.g. "PLAYING", "LOOPING"
	Pass        int    // 1-based pass number
	Revealed    int
	Total       int
	Elapsed     time.Duration
	Clock       time.Time
}

// FormatElapsed renders a duration as a compact string: "5s", "2m30s", "1h15m".
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// RenderHeader renders the header bar. accentStyle is applied to the full
// header width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	name := "Showcase"
	if props.ProjectName != "" {
		name = props.ProjectName
	}
	parts := []string{"▶ " + name}

	if props.DemoTitle != "" {
		parts = append(parts, props.DemoTitle)
	}

	stateLabel := props.StateLabel
	if props.StateSymbol != "" && props.StateLabel != "" {
		stateLabel = props.StateSymbol + " " + props.StateLabel
	}
	if stateLabel != "" {
		parts = append(parts, stateLabel)
	}

	if props.Pass > 0 {
		parts = append(parts, fmt.Sprintf("pass %d", props.Pass))
	}
	parts = append(parts, fmt.Sprintf("line %d/%d", props.Revealed, props.Total))

	if props.Elapsed > 0 {
		parts = append(parts, FormatElapsed(props.Elapsed))
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	content := strings.Join(parts, "  │  ")
	return accentStyle.Width(width).MaxWidth(width).Render(content)
}
