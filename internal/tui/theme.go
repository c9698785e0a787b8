package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/sequencer"
)

// cursorGlyph is drawn after the line being revealed.
const cursorGlyph = "▋"

// Theme holds accent-color-derived styles.
type Theme struct {
	accent      string
	accentStyle lipgloss.Style
	cursorStyle lipgloss.Style
	bodyBorder  lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: color,
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		cursorStyle: lipgloss.NewStyle().Foreground(c),
		bodyBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
	}
}

// Accent returns the accent color string.
func (t Theme) Accent() string { return t.accent }

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style { return t.accentStyle }

// BodyBorderStyle returns the border drawn around the demo body.
func (t Theme) BodyBorderStyle() lipgloss.Style { return t.bodyBorder }

// Cursor renders the typing cursor.
func (t Theme) Cursor() string { return t.cursorStyle.Render(cursorGlyph) }

// RenderLine renders a visible line with its category prefix and style.
// The line mid-reveal is drawn faint; the cursor is appended only when
// cursor is true.
func (t Theme) RenderLine(vl sequencer.VisibleLine, cursor bool) string {
	style := lineStyle(vl.Line)
	if vl.Animating {
		style = style.Faint(true)
	}
	out := style.Render(vl.Display())
	if cursor {
		out += " " + t.Cursor()
	}
	return out
}

// RenderText renders only the line text, without the category prefix.
func (t Theme) RenderText(vl sequencer.VisibleLine) string {
	style := lineStyle(vl.Line)
	if vl.Animating {
		style = style.Faint(true)
	}
	return style.Render(vl.Text)
}
