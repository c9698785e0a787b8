// Package pacing computes how long a scripted line waits before it is
// revealed, so playback reads like someone narrating a terminal session
// rather than a fixed-interval ticker.
package pacing

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
)

// Random is the source of uniform floats in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	Float64() float64
}

// Range is an inclusive-exclusive millisecond range [Min, Max).
type Range struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

// Ranges holds the base range for every pacing class.
type Ranges struct {
	Prompt        Range `toml:"prompt"`
	StatusWorking Range `toml:"status_working"`
	StatusSimple  Range `toml:"status_simple"`
	Success       Range `toml:"success"`
	Warning       Range `toml:"warning"`
	Plain         Range `toml:"plain"`
}

// DefaultRanges returns the stock pacing ranges.
func DefaultRanges() Ranges {
	return Ranges{
		Prompt:        Range{Min: 500, Max: 800},
		StatusWorking: Range{Min: 2000, Max: 3000},
		StatusSimple:  Range{Min: 600, Max: 1000},
		Success:       Range{Min: 700, Max: 1200},
		Warning:       Range{Min: 900, Max: 1500},
		Plain:         Range{Min: 600, Max: 1000},
	}
}

// DefaultJitter is the fraction of the base delay applied as +/- jitter.
const DefaultJitter = 0.1

// DefaultWorkingVerbs mark status lines that simulate real computation.
var DefaultWorkingVerbs = []string{
	"processing", "analyzing", "executing", "generating", "training",
	"loading", "scanning", "building", "transcribing", "calculating",
	"correlating",
}

// Calculator maps a line to a reveal delay. The zero value is not usable;
// construct with New.
type Calculator struct {
	Ranges       Ranges
	Jitter       float64
	WorkingVerbs []string
	Rand         Random
}

// New returns a Calculator with the default ranges, jitter and verb list.
// A nil rng uses the global math/rand/v2 source.
func New(rng Random) *Calculator {
	verbs := make([]string, len(DefaultWorkingVerbs))
	copy(verbs, DefaultWorkingVerbs)
	return &Calculator{
		Ranges:       DefaultRanges(),
		Jitter:       DefaultJitter,
		WorkingVerbs: verbs,
		Rand:         rng,
	}
}

// Millis returns the reveal delay for line in milliseconds. An explicit
// delay always wins, instant lines get 0, everything else is sampled from
// its category range with jitter. Each call draws fresh randomness.
func (c *Calculator) Millis(line script.Line) int {
	if line.DelayMS != nil {
		return *line.DelayMS
	}
	if line.Instant {
		return 0
	}

	r := c.RangeFor(line)
	base := float64(r.Min) + c.float()*float64(r.Max-r.Min)
	jitter := base * c.Jitter * (c.float()*2 - 1)
	ms := int(math.Round(base + jitter))
	if ms < 0 {
		return 0
	}
	return ms
}

// Delay is Millis as a time.Duration.
func (c *Calculator) Delay(line script.Line) time.Duration {
	return time.Duration(c.Millis(line)) * time.Millisecond
}

// RangeFor returns the base range used for line.
func (c *Calculator) RangeFor(line script.Line) Range {
	switch line.Category {
	case script.Prompt:
		return c.Ranges.Prompt
	case script.Status:
		if c.isWorking(line.Text) {
			return c.Ranges.StatusWorking
		}
		return c.Ranges.StatusSimple
	case script.Success:
		return c.Ranges.Success
	case script.Warning:
		return c.Ranges.Warning
	default:
		return c.Ranges.Plain
	}
}

func (c *Calculator) isWorking(text string) bool {
	lower := strings.ToLower(text)
	for _, verb := range c.WorkingVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return false
}

func (c *Calculator) float() float64 {
	if c.Rand == nil {
		return rand.Float64()
	}
	return c.Rand.Float64()
}
