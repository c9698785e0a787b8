package tui

import (
	"sync"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/sequencer"
)

// Follow subscribes to seq and forwards its snapshots on a single-slot
// channel. A snapshot nobody has read yet is replaced by the newer one, so
// the sequencer's timer goroutine never blocks on a slow renderer. Calling
// stop unsubscribes; the channel is never closed.
func Follow(seq *sequencer.Sequencer) (<-chan sequencer.Snapshot, func()) {
	ch := make(chan sequencer.Snapshot, 1)
	var mu sync.Mutex
	stop := seq.Subscribe(func(snap sequencer.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		for {
			select {
			case ch <- snap:
				return
			default:
			}
			select {
			case old := <-ch:
				if old.Version > snap.Version {
					snap = old
				}
			default:
			}
		}
	})
	return ch, stop
}
