// Package components provides reusable TUI components for the showcase player.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultAccent = "#7D56F4"

// tabInactiveStyle renders inactive tabs in a dimmed style.
var tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// TabBar is a stateless tab bar component that renders a row of labelled tabs.
// The active tab is highlighted with accent color and bold text.
type TabBar struct {
	tabs        []string
	active      int
	width       int
	activeStyle lipgloss.Style
}

// NewTabBar creates a TabBar with the given tab titles. The first tab is
// active. An empty accent uses the default indigo.
func NewTabBar(tabs []string, accent string) TabBar {
	if accent == "" {
		accent = defaultAccent
	}
	return TabBar{
		tabs:        tabs,
		activeStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
	}
}

// Len returns the number of tabs.
func (t TabBar) Len() int { return len(t.tabs) }

// Active returns the index of the currently active tab.
func (t TabBar) Active() int {
	return t.active
}

// Next returns a TabBar with the next tab active (wraps around).
func (t TabBar) Next() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + 1) % len(t.tabs)
	return t
}

// Prev returns a TabBar with the previous tab active (wraps around).
func (t TabBar) Prev() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + len(t.tabs) - 1) % len(t.tabs)
	return t
}

// SetActive returns a TabBar with tab i active. Out-of-range indexes are
// ignored.
func (t TabBar) SetActive(i int) TabBar {
	if i >= 0 && i < len(t.tabs) {
		t.active = i
	}
	return t
}

// SetWidth returns a TabBar configured for the given render width.
func (t TabBar) SetWidth(w int) TabBar {
	t.width = w
	return t
}

// View renders the tab bar as a single line. Tabs are numbered so the
// 1-9 shortcuts are discoverable, and the line is truncated to the width.
func (t TabBar) View() string {
	if len(t.tabs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(t.tabs))
	for i, label := range t.tabs {
		if i < 9 {
			label = string(rune('1'+i)) + " " + label
		}
		if i == t.active {
			parts = append(parts, t.activeStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}

	line := strings.Join(parts, "  │  ")
	if t.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(t.width).Render(line)
	}
	return line
}
