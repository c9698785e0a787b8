package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen is the scrolling output area of a demo. It wraps bubbles/viewport
// and stays pinned to the newest line unless the viewer scrolls up.
type Screen struct {
	vp     viewport.Model
	lines  []string // rendered (pre-styled) lines
	follow bool
}

// NewScreen creates a Screen with the given dimensions, pinned to the bottom.
func NewScreen(w, h int) Screen {
	return Screen{vp: viewport.New(w, h), follow: true}
}

// SetLines replaces the screen content with pre-rendered lines.
func (s Screen) SetLines(lines []string) Screen {
	s.lines = make([]string, len(lines))
	copy(s.lines, lines)
	s.vp.SetContent(strings.Join(s.lines, "\n"))
	if s.follow {
		s.vp.GotoBottom()
	}
	return s
}

// Lines returns the current content.
func (s Screen) Lines() []string {
	return s.lines
}

// SetSize resizes the screen.
func (s Screen) SetSize(w, h int) Screen {
	s.vp.Width = w
	s.vp.Height = h
	if s.follow {
		s.vp.GotoBottom()
	}
	return s
}

// Following reports whether the screen is pinned to the newest line.
func (s Screen) Following() bool {
	return s.follow
}

// Update handles scroll keys and mouse wheel events. Scrolling away from
// the bottom unpins the screen; scrolling back to it pins it again.
func (s Screen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		s.follow = s.vp.AtBottom()
	}
	return s, cmd
}

// View renders the screen.
func (s Screen) View() string {
	return s.vp.View()
}
