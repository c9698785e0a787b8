package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Status string // left side, e.g. "demo 2/3 · terminal"
	Help   string // right side, rendered key hints
}

// RenderFooter renders the footer bar: status on the left, key hints on
// the right. When both do not fit, the hints win.
func RenderFooter(props FooterProps, width int) string {
	left, right := props.Status, props.Help

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		left = ""
		gap = width - lipgloss.Width(right)
		if gap < 0 {
			gap = 0
		}
	}

	return footerStyle.Width(width).MaxWidth(width).Render(left + strings.Repeat(" ", gap) + right)
}
