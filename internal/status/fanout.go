package status

import (
	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/dispatch"
)

// Fanout multiplexes coordinator events to multiple notifiers. Notifiers
// are invoked in registration order on the caller's goroutine; they must
// not block.
type Fanout struct {
	notifiers []dispatch.Notifier
}

// NewFanout creates a Fanout over the given notifiers. Nil entries are
// skipped so callers can pass optional surfaces directly.
func NewFanout(notifiers ...dispatch.Notifier) *Fanout {
	f := &Fanout{}
	for _, n := range notifiers {
		if n != nil {
			f.notifiers = append(f.notifiers, n)
		}
	}
	return f
}

// NotifySelected forwards a selection event to every notifier.
func (f *Fanout) NotifySelected(c cue.Cue) {
	for _, n := range f.notifiers {
		n.NotifySelected(c)
	}
}

// NotifyStatus forwards a send result to every notifier.
func (f *Fanout) NotifyStatus(s dispatch.Status) {
	for _, n := range f.notifiers {
		n.NotifyStatus(s)
	}
}
