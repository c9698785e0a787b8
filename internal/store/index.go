package store

import "github.com/LISSConsulting/LISSTech.Showcase/internal/playback"

// passRange is the [start, end) byte range of one pass in the JSONL file.
// Demos played concurrently interleave, so a range may also hold lines of
// other demos; readers filter by demo.
type passRange struct {
	start int64
	end   int64
}

type passKey struct {
	demo   string
	number int
}

// fileIndex maintains in-memory byte-offset bookmarks per completed pass.
// It is updated by onAppend as each event is written.
type fileIndex struct {
	summaries []PassSummary // ordered by completion time
	ranges    map[passKey]passRange
	pending   map[string]*pendingPass // open pass per demo
	demos     []string                // in order of first appearance
	lines     int
}

// pendingPass accumulates state for the pass currently being written.
type pendingPass struct {
	startOffset int64
	summary     PassSummary
}

func newFileIndex() *fileIndex {
	return &fileIndex{
		ranges:  make(map[passKey]passRange),
		pending: make(map[string]*pendingPass),
	}
}

// onAppend updates the index when an event line has been appended.
// lineOffset is the byte offset of the first byte of the written line;
// lineLen is the total bytes written (including the trailing newline).
func (idx *fileIndex) onAppend(ev playback.Event, lineOffset, lineLen int64) {
	switch ev.Kind {
	case playback.EventStart, playback.EventPass:
		if ev.Kind == playback.EventStart {
			idx.noteDemo(ev.Demo)
		}
		idx.pending[ev.Demo] = &pendingPass{
			startOffset: lineOffset,
			summary: PassSummary{
				Demo:    ev.Demo,
				Number:  ev.LoopIteration + 1,
				StartAt: ev.Timestamp,
			},
		}
	case playback.EventReveal:
		idx.lines++
		if p := idx.pending[ev.Demo]; p != nil {
			p.summary.Lines++
		}
	case playback.EventFreeze, playback.EventDone:
		p := idx.pending[ev.Demo]
		if p == nil {
			return
		}
		s := p.summary
		s.EndAt = ev.Timestamp
		idx.ranges[passKey{s.Demo, s.Number}] = passRange{
			start: p.startOffset,
			end:   lineOffset + lineLen,
		}
		idx.summaries = append(idx.summaries, s)
		delete(idx.pending, ev.Demo)
	case playback.EventStopped:
		delete(idx.pending, ev.Demo)
	}
}

func (idx *fileIndex) noteDemo(name string) {
	for _, d := range idx.demos {
		if d == name {
			return
		}
	}
	idx.demos = append(idx.demos, name)
}
