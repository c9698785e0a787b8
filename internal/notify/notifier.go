// Package notify sends fire-and-forget HTTP notifications for playback
// events. The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/playback"
)

// Notifier posts plain-text HTTP notifications for selected playback events.
type Notifier struct {
	url    string
	title  string
	onPass bool
	onDone bool
	onStop bool
	client *http.Client
	wg     sync.WaitGroup
}

// New creates a Notifier. projectName is used as the X-Title header; if empty,
// "Showcase" is used instead.
func New(notifURL, projectName string, onPass, onDone, onStop bool) *Notifier {
	title := "Showcase"
	if projectName != "" {
		title = projectName
	}
	return &Notifier{
		url:    notifURL,
		title:  title,
		onPass: onPass,
		onDone: onDone,
		onStop: onStop,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Hook fires an asynchronous POST for events that match the configured
// notification flags. The demo name is prepended to the message.
func (n *Notifier) Hook(ev playback.Event) {
	var send bool
	switch ev.Kind {
	case playback.EventFreeze:
		send = n.onPass
	case playback.EventDone:
		send = n.onDone
	case playback.EventStopped:
		send = n.onStop
	}
	if !send {
		return
	}
	msg := ev.Message
	if ev.Demo != "" {
		msg = ev.Demo + ": " + msg
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.post(msg)
	}()
}

// Wait blocks until every notification fired so far has been sent or has
// failed.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt playback.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
