// Package tui provides a bubbletea + lipgloss terminal UI that plays the
// showcase demos.
package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
)

// defaultAccentColor is the default accent color (indigo).
const defaultAccentColor = "#7D56F4"

var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorOrange = lipgloss.Color("#FFA54F")
	colorCyan   = lipgloss.Color("#4FD1C5")
	colorPink   = lipgloss.Color("#F78FB3")
)

var (
	plainStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorOrange).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Align(lipgloss.Center)
)

// namedColors are the color hints a script may use by name.
var namedColors = map[string]lipgloss.Color{
	"white":   colorWhite,
	"gray":    colorGray,
	"grey":    colorGray,
	"blue":    colorBlue,
	"green":   colorGreen,
	"yellow":  colorYellow,
	"red":     colorRed,
	"orange":  colorOrange,
	"cyan":    colorCyan,
	"magenta": colorPink,
	"pink":    colorPink,
}

var hexHintRe = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// categoryStyle returns the base style for a line category.
func categoryStyle(c script.Category) lipgloss.Style {
	switch c {
	case script.Prompt:
		return promptStyle
	case script.Status:
		return statusStyle
	case script.Warning:
		return warningStyle
	case script.Success:
		return successStyle
	default:
		return plainStyle
	}
}

// hintColor resolves a line's color hint. Unknown hints are ignored so a
// typo never breaks playback.
func hintColor(hint string) (lipgloss.Color, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", false
	}
	if hexHintRe.MatchString(hint) {
		return lipgloss.Color(hint), true
	}
	c, ok := namedColors[strings.ToLower(hint)]
	return c, ok
}

// lineStyle combines the category style with the line's color hint.
func lineStyle(line script.Line) lipgloss.Style {
	style := categoryStyle(line.Category)
	if c, ok := hintColor(line.ColorHint); ok {
		style = style.Foreground(c)
	}
	return style
}
