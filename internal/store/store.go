// Package store persists playback events to a JSONL session log and provides
// indexed read-back of completed passes. One store instance is created per
// showcase invocation in cmd/showcase/wiring.go and shared by every demo
// played in that process.
package store

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/playback"
)

// Writer persists playback events to durable storage.
type Writer interface {
	Append(ev playback.Event) error
	Close() error
}

// Reader retrieves past pass data from storage.
type Reader interface {
	Passes() ([]PassSummary, error)
	PassLog(demo string, n int) ([]playback.Event, error)
	SessionSummary() (SessionSummary, error)
}

// Store combines Writer and Reader into a single session-scoped handle.
type Store interface {
	Writer
	Reader
}

// PassSummary summarises one completed pass of a demo.
type PassSummary struct {
	Demo    string
	Number  int // 1-based pass number
	Lines   int // lines revealed during the pass
	StartAt time.Time
	EndAt   time.Time
}

// Duration returns how long the pass took to play.
func (p PassSummary) Duration() time.Duration {
	return p.EndAt.Sub(p.StartAt)
}

// SessionSummary summarises one session log.
type SessionSummary struct {
	SessionID string
	Path      string
	StartedAt time.Time
	Demos     []string
	Passes    int
	Lines     int
}
