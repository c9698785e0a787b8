package panels

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderHeader_BasicFields(t *testing.T) {
	accent := lipgloss.NewStyle().Background(lipgloss.Color("#7D56F4"))
	now := time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC)

	props := HeaderProps{
		ProjectName: "Landing",
		DemoTitle:   "Network recon",
		StateSymbol: "●",
		StateLabel:  "PLAYING",
		Pass:        2,
		Revealed:    4,
		Total:       12,
		Elapsed:     90 * time.Second,
		Clock:       now,
	}

	rendered := RenderHeader(props, 200, accent)
	for _, want := range []string{"Landing", "Network recon", "● PLAYING", "pass 2", "line 4/12", "1m30s", "15:30"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("RenderHeader() missing %q; output: %q", want, rendered)
		}
	}
}

func TestRenderHeader_EmptyFieldFallbacks(t *testing.T) {
	rendered := RenderHeader(HeaderProps{}, 200, lipgloss.NewStyle())
	if !strings.Contains(rendered, "Showcase") {
		t.Errorf("RenderHeader() should fall back to Showcase; got %q", rendered)
	}
	if strings.Contains(rendered, "pass") {
		t.Errorf("pass should be omitted before playback; got %q", rendered)
	}
}

func TestRenderHeader_LabelWithoutSymbol(t *testing.T) {
	rendered := RenderHeader(HeaderProps{StateLabel: "IDLE"}, 200, lipgloss.NewStyle())
	if !strings.Contains(rendered, "IDLE") {
		t.Errorf("got %q", rendered)
	}
}

func TestRenderHeader_Width(t *testing.T) {
	rendered := RenderHeader(HeaderProps{ProjectName: strings.Repeat("x", 300)}, 80, lipgloss.NewStyle())
	if w := lipgloss.Width(rendered); w != 80 {
		t.Errorf("header width = %d, want 80", w)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{5 * time.Second, "5s"},
		{150 * time.Second, "2m30s"},
		{75 * time.Minute, "1h15m"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
