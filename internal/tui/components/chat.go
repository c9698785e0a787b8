package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ChatMessage is one rendered turn in a chat demo.
type ChatMessage struct {
	Speaker string
	Body    string // pre-styled message text
	Pending bool   // still being "typed"
}

var (
	speakerStyle = lipgloss.NewStyle().Bold(true)
	systemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
	bubbleStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// RenderChat lays out messages as speech bubbles. The viewer's own turns
// ("you" or "user") sit on the right, "system" notes are centred, and every
// other speaker is on the left.
func RenderChat(msgs []ChatMessage, width int, accent string) []string {
	if accent == "" {
		accent = defaultAccent
	}
	maxBubble := width * 3 / 4
	if maxBubble < 10 {
		maxBubble = width
	}
	selfBorder := bubbleStyle.BorderForeground(lipgloss.Color(accent))

	var out []string
	for _, m := range msgs {
		speaker := strings.ToLower(m.Speaker)
		if speaker == "system" {
			out = append(out, lipgloss.PlaceHorizontal(width, lipgloss.Center, systemStyle.Render(m.Body)))
			continue
		}

		border := bubbleStyle
		align := lipgloss.Left
		if speaker == "you" || speaker == "user" {
			border = selfBorder
			align = lipgloss.Right
		}
		if m.Pending {
			border = border.BorderForeground(lipgloss.Color("#555555"))
		}

		body := m.Body
		if inner := maxBubble - 4; inner > 0 && lipgloss.Width(body) > inner {
			body = lipgloss.NewStyle().Width(inner).Render(body)
		}
		bubble := border.Render(body)
		if m.Speaker != "" {
			bubble = lipgloss.JoinVertical(align, speakerStyle.Render(m.Speaker), bubble)
		}
		out = append(out, lipgloss.PlaceHorizontal(width, align, bubble))
	}
	return out
}
