// Package script defines the scripted lines that demos play back and the
// loaders that build them from YAML files or from the built-in catalogue.
package script

import "strings"

// Category classifies a line for pacing and presentation.
type Category int

const (
	Plain   Category = iota // Narrative text, default pacing
	Prompt                  // A typed command or directive
	Status                  // Processing/status output
	Warning                 // Something the viewer should notice
	Success                 // A completed step
)

// String returns the lowercase name used in script files.
func (c Category) String() string {
	switch c {
	case Prompt:
		return "prompt"
	case Status:
		return "status"
	case Warning:
		return "warning"
	case Success:
		return "success"
	default:
		return "plain"
	}
}

// Prefix returns the visual marker rendered before the line text.
func (c Category) Prefix() string {
	switch c {
	case Prompt:
		return "$ "
	case Status:
		return "⟳ "
	case Warning:
		return "⚠ "
	case Success:
		return "✓ "
	default:
		return ""
	}
}

// ParseCategory maps a category name to a Category. Matching is
// case-insensitive; unknown names map to Plain.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prompt", "command", "cmd":
		return Prompt
	case "status", "processing":
		return Status
	case "warning", "warn":
		return Warning
	case "success", "ok":
		return Success
	default:
		return Plain
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (c *Category) UnmarshalText(text []byte) error {
	*c = ParseCategory(string(text))
	return nil
}

// Line is one scripted unit of output.
type Line struct {
	Category  Category `yaml:"category,omitempty" json:"category"`
	Text      string   `yaml:"text" json:"text"`
	ColorHint string   `yaml:"color,omitempty" json:"color,omitempty"`
	Instant   bool     `yaml:"instant,omitempty" json:"instant,omitempty"`
	DelayMS   *int     `yaml:"delay_ms,omitempty" json:"delay_ms,omitempty"`

	// Renderer-only fields; the sequencer never reads them.
	Speaker string   `yaml:"speaker,omitempty" json:"speaker,omitempty"`
	Value   *float64 `yaml:"value,omitempty" json:"value,omitempty"`
}

// HasExplicitDelay reports whether the line overrides computed pacing.
func (l Line) HasExplicitDelay() bool {
	return l.DelayMS != nil
}

// Display returns the text with its category prefix.
func (l Line) Display() string {
	return l.Category.Prefix() + l.Text
}

// WithDelay returns a copy of l with an explicit delay in milliseconds.
func (l Line) WithDelay(ms int) Line {
	l.DelayMS = &ms
	return l
}

// WithValue returns a copy of l carrying a chart value.
func (l Line) WithValue(v float64) Line {
	l.Value = &v
	return l
}

// P builds a Prompt line.
func P(text string) Line { return Line{Category: Prompt, Text: text} }

// S builds a Status line.
func S(text string) Line { return Line{Category: Status, Text: text} }

// W builds a Warning line.
func W(text string) Line { return Line{Category: Warning, Text: text} }

// OK builds a Success line.
func OK(text string) Line { return Line{Category: Success, Text: text} }

// T builds a Plain line.
func T(text string) Line { return Line{Text: text} }

// Instant builds a Plain line that is revealed without delay.
func Instant(text string) Line { return Line{Text: text, Instant: true} }
