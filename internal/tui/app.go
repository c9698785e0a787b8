package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/sequencer"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/tui/components"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/tui/panels"
)

// Options configures the player UI.
type Options struct {
	ProjectName string
	AccentColor string
	CursorBlink time.Duration // 0 = steady cursor
	Active      int           // index of the demo the sequencer is playing

	// OnSwitch, when set, is called with the new demo just before the
	// sequencer is handed its lines.
	OnSwitch func(script.Script)
}

// Model is the root bubbletea model of the demo player. It renders one
// sequencer whose line sequence is swapped when the viewer changes demo.
type Model struct {
	demos []script.Script
	seq   *sequencer.Sequencer
	snaps <-chan sequencer.Snapshot
	snap  sequencer.Snapshot

	active int
	tabs   components.TabBar
	screen components.Screen
	help   help.Model
	keys   KeyMap

	layout Layout
	theme  Theme
	width  int
	height int

	cursorOn bool
	blink    time.Duration
	onSwitch func(script.Script)

	projectName string
	startedAt   time.Time
	now         time.Time
}

// New creates the player Model. seq must already hold the lines of
// demos[opts.Active]; snaps is usually the channel returned by Follow.
// The caller starts and closes seq.
func New(demos []script.Script, seq *sequencer.Sequencer, snaps <-chan sequencer.Snapshot, opts Options) Model {
	now := time.Now()
	th := NewTheme(opts.AccentColor)

	titles := make([]string, len(demos))
	for i, d := range demos {
		titles[i] = d.Name
	}

	m := Model{
		demos:       demos,
		seq:         seq,
		snaps:       snaps,
		snap:        seq.Snapshot(),
		tabs:        components.NewTabBar(titles, th.Accent()).SetActive(opts.Active),
		screen:      components.NewScreen(78, 19),
		help:        help.New(),
		keys:        DefaultKeyMap(),
		theme:       th,
		cursorOn:    true,
		blink:       opts.CursorBlink,
		onSwitch:    opts.OnSwitch,
		projectName: opts.ProjectName,
		startedAt:   now,
		now:         now,
	}
	m.active = m.tabs.Active()
	return m.resize(80, 24)
}

// Active returns the index of the demo on screen.
func (m Model) Active() int { return m.active }

// Snapshot returns the sequencer state currently rendered.
func (m Model) Snapshot() sequencer.Snapshot { return m.snap }

// Init returns the initial commands: snapshot listener, clock and cursor.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snaps), tickCmd(), blinkCmd(m.blink))
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func blinkCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return blinkMsg(t)
	})
}

// waitForSnapshot blocks on the snapshot channel and returns the next message.
func waitForSnapshot(ch <-chan sequencer.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return followClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case snapshotMsg:
		snap := sequencer.Snapshot(msg)
		// Anything at or below the current version predates a switch.
		if snap.Version > m.snap.Version {
			m.snap = snap
			m = m.render()
		}
		return m, waitForSnapshot(m.snaps)
	case followClosedMsg:
		return m, nil
	case blinkMsg:
		m.cursorOn = !m.cursorOn
		return m.render(), blinkCmd(m.blink)
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	}
	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m.switchTo(m.tabs.Next().Active()), nil
	case key.Matches(msg, m.keys.Prev):
		return m.switchTo(m.tabs.Prev().Active()), nil
	case key.Matches(msg, m.keys.Jump):
		return m.switchTo(int(msg.String()[0] - '1')), nil
	case key.Matches(msg, m.keys.Restart):
		m.seq.Restart()
		return m.resync(), nil
	}
	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

// switchTo plays demo i from the beginning. Replace resets the sequencer
// before loading the new lines.
func (m Model) switchTo(i int) Model {
	if i < 0 || i >= len(m.demos) || i == m.active {
		return m
	}
	m.active = i
	m.tabs = m.tabs.SetActive(i)
	if m.onSwitch != nil {
		m.onSwitch(m.demos[i])
	}
	m.seq.Replace(m.demos[i].Lines)
	return m.resync()
}

// resync takes the sequencer's current state after a reset, so queued
// snapshots from before it are dropped by version.
func (m Model) resync() Model {
	m.snap = m.seq.Snapshot()
	m.startedAt = m.now
	w, h := innerDims(m.layout.Body)
	m.screen = components.NewScreen(w, h)
	return m.render()
}

func (m Model) resize(width, height int) Model {
	m.width = width
	m.height = height
	m.layout = Calculate(width, height)
	if m.layout.TooSmall {
		return m
	}
	w, h := innerDims(m.layout.Body)
	m.screen = m.screen.SetSize(w, h)
	m.tabs = m.tabs.SetWidth(width)
	m.help.Width = width
	return m.render()
}

func (m Model) demo() script.Script {
	if m.active < len(m.demos) {
		return m.demos[m.active]
	}
	return script.Script{}
}

// render rebuilds the body content from the current snapshot.
func (m Model) render() Model {
	w, h := innerDims(m.layout.Body)
	var lines []string
	switch m.demo().Kind {
	case script.KindChat:
		lines = m.chatLines(w)
	case script.KindChart:
		lines = m.chartLines(w, h)
	default:
		lines = m.terminalLines()
	}
	m.screen = m.screen.SetLines(lines)
	return m
}

// cursorAt reports whether the cursor is drawn after vl in this frame.
func (m Model) cursorAt(vl sequencer.VisibleLine) bool {
	return vl.Animating && m.snap.ShowCursor && m.cursorOn
}

func (m Model) terminalLines() []string {
	lines := make([]string, len(m.snap.Visible))
	for i, vl := range m.snap.Visible {
		lines[i] = m.theme.RenderLine(vl, m.cursorAt(vl))
	}
	return lines
}

func (m Model) chatLines(width int) []string {
	msgs := make([]components.ChatMessage, len(m.snap.Visible))
	for i, vl := range m.snap.Visible {
		body := m.theme.RenderText(vl)
		if m.cursorAt(vl) {
			body += " " + m.theme.Cursor()
		}
		msgs[i] = components.ChatMessage{Speaker: vl.Speaker, Body: body, Pending: vl.Animating}
	}
	return components.RenderChat(msgs, width, m.theme.Accent())
}

// chartLines draws every revealed value as a bar above the text log.
func (m Model) chartLines(width, height int) []string {
	var points []components.BarPoint
	for _, vl := range m.snap.Visible {
		if vl.Value != nil && !vl.Animating {
			points = append(points, components.BarPoint{Label: vl.Text, Value: *vl.Value})
		}
	}

	chartH := height / 2
	if chartH > 10 {
		chartH = 10
	}
	var lines []string
	if chart := components.RenderBars(points, width, chartH, m.theme.Accent()); chart != "" {
		lines = append(strings.Split(chart, "\n"), "")
	}
	for _, vl := range m.snap.Visible {
		if vl.Value != nil && !vl.Animating {
			continue
		}
		lines = append(lines, m.theme.RenderLine(vl, m.cursorAt(vl)))
	}
	return lines
}

// View renders the full player.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least %dx%d.", m.width, m.height, MinWidth, MinHeight)
		return noticeStyle.Width(m.width).Render(msg)
	}

	header := panels.RenderHeader(panels.HeaderProps{
		ProjectName: m.projectName,
		DemoTitle:   m.demo().DisplayTitle(),
		StateSymbol: m.snap.Phase.Symbol(),
		StateLabel:  m.snap.Phase.Label(),
		Pass:        m.snap.LoopIteration + 1,
		Revealed:    m.snap.Revealed,
		Total:       m.snap.Total,
		Elapsed:     m.now.Sub(m.startedAt),
		Clock:       m.now,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	w, h := innerDims(m.layout.Body)
	body := m.theme.BodyBorderStyle().
		Width(w).Height(h).
		Render(m.screen.View())

	footer := panels.RenderFooter(panels.FooterProps{
		Status: fmt.Sprintf("demo %d/%d · %s", m.active+1, len(m.demos), m.demo().Kind),
		Help:   m.help.View(m.keys),
	}, m.layout.Footer.Width)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.tabs.View(), body, footer)
}
