package dispatch

import (
	"context"
	"time"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/executor"
)

// Status is the coordinator's view of the last completed device send.
type Status struct {
	CueName string    `json:"cue_name"`
	OK      bool      `json:"ok"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// CueRunner executes one cue against the device. The returned message
// describes a successful send for status display.
type CueRunner interface {
	Run(ctx context.Context, c cue.Cue, trigger executor.Trigger) (string, error)
}

// Metrics receives coordinator telemetry. Implementations must not block;
// they run on the dispatch path.
type Metrics interface {
	// RecordDebounce reports how many selections one debounce window
	// coalesced into the send that just dispatched.
	RecordDebounce(cueName string, coalesced int)
}

// Notifier receives coordinator events. NotifySelected fires immediately on
// selection, before the debounce window closes; NotifyStatus fires when a
// device send completes and its result is still current.
type Notifier interface {
	NotifySelected(c cue.Cue)
	NotifyStatus(s Status)
}

// Logger is the minimal logging interface the coordinator needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// noopNotifier is a notifier that does nothing.
type noopNotifier struct{}

func (noopNotifier) NotifySelected(cue.Cue) {}
func (noopNotifier) NotifyStatus(Status)    {}
