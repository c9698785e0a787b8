package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/sequencer"
)

// snapshotMsg carries the latest sequencer state.
type snapshotMsg sequencer.Snapshot

// followClosedMsg signals the snapshot channel closed.
type followClosedMsg struct{}

// blinkMsg toggles the typing cursor.
type blinkMsg time.Time

// tickMsg is sent every second for the clock.
type tickMsg time.Time
