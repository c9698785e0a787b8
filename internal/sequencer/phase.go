package sequencer

// Phase is the playback state of a Sequencer.
type Phase int

const (
	PhaseIdle      Phase = iota // Not started, or reset
	PhaseRevealing              // A line is pending or lines are being revealed
	PhaseFrozen                 // Pass complete, waiting to loop
	PhaseDone                   // Pass complete, not looping
)

// validTransitions defines the allowed Phase transitions.
var validTransitions = map[Phase][]Phase{
	PhaseIdle:      {PhaseRevealing, PhaseFrozen, PhaseDone},
	PhaseRevealing: {PhaseRevealing, PhaseFrozen, PhaseDone, PhaseIdle},
	PhaseFrozen:    {PhaseRevealing, PhaseFrozen, PhaseIdle},
	PhaseDone:      {PhaseIdle},
}

// CanTransitionTo reports whether moving from p to next is valid.
func (p Phase) CanTransitionTo(next Phase) bool {
	for _, valid := range validTransitions[p] {
		if valid == next {
			return true
		}
	}
	return false
}

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRevealing:
		return "revealing"
	case PhaseFrozen:
		return "frozen"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Label returns a short uppercase label for status bars.
func (p Phase) Label() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseRevealing:
		return "PLAYING"
	case PhaseFrozen:
		return "LOOPING"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a single-character symbol for the phase.
func (p Phase) Symbol() string {
	switch p {
	case PhaseIdle:
		return "○"
	case PhaseRevealing:
		return "●"
	case PhaseFrozen:
		return "⟳"
	case PhaseDone:
		return "✓"
	default:
		return "?"
	}
}
