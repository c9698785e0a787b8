package panels

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderFooter(t *testing.T) {
	out := RenderFooter(FooterProps{Status: "demo 1/3", Help: "q quit"}, 60)
	if !strings.HasPrefix(out, "demo 1/3") || !strings.HasSuffix(out, "q quit") {
		t.Errorf("unexpected footer: %q", out)
	}
	if w := lipgloss.Width(out); w != 60 {
		t.Errorf("footer width = %d, want 60", w)
	}
}

func TestRenderFooter_NarrowDropsStatus(t *testing.T) {
	out := RenderFooter(FooterProps{Status: "demo 1/3", Help: strings.Repeat("h", 25)}, 30)
	if strings.Contains(out, "demo") {
		t.Errorf("status should be dropped when space is short: %q", out)
	}
	if !strings.Contains(out, strings.Repeat("h", 25)) {
		t.Errorf("hints should survive: %q", out)
	}
}
