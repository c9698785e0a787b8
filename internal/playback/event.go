package playback

import (
	"fmt"
	"time"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
)

// EventKind identifies the type of a playback event.
type EventKind int

const (
	EventStart   EventKind = iota // Playback starting
	EventReveal                   // A line was revealed
	EventFreeze                   // Pass complete, holding before the next loop
	EventPass                     // A new pass began
	EventDone                     // Playback finished normally
	EventStopped                  // Playback stopped (context cancelled)
)

// String returns the lowercase event name used in session logs.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventReveal:
		return "reveal"
	case EventFreeze:
		return "freeze"
	case EventPass:
		return "pass"
	case EventDone:
		return "done"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is a structured record emitted by a Player. When Player.Events is
// set, events are sent there. Otherwise they are written to Player.Log.
type Event struct {
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"ts"`
	Demo      string    `json:"demo"`
	Message   string    `json:"message,omitempty"`

	// Reveal fields
	Line  script.Line `json:"line"`
	Index int         `json:"index"`
	Total int         `json:"total,omitempty"`

	// Loop state
	LoopIteration int `json:"loop_iteration"`
	Passes        int `json:"passes,omitempty"`
}

// MarshalText implements encoding.TextMarshaler so session logs carry the
// event name instead of its ordinal.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(b []byte) error {
	for c := EventStart; c <= EventStopped; c++ {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("playback: unknown event kind %q", b)
}
