package executor

import (
	"context"
	"time"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/relay"
	"github.com/ovationworks/cueboard-core/internal/sequence"
)

// Sender delivers channel states to the relay device.
type Sender interface {
	Send(ctx context.Context, pairs []cue.Pair) (*relay.Result, error)
}

// SequenceResolver resolves a cue's sequence reference to its steps.
type SequenceResolver interface {
	Load(name string) ([]sequence.Step, error)
}

// Metrics receives telemetry for completed runs. Implementations must not
// block; they run on the execution path.
type Metrics interface {
	RecordSend(cueName string, trigger Trigger, ok bool, durationMS int64)
}

// Logger is the minimal logging interface the runner needs.
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

// Trigger names the surface that started a run.
type Trigger string

const (
	TriggerAPI   Trigger = "api"
	TriggerOSC   Trigger = "osc"
	TriggerMQTT  Trigger = "mqtt"
	TriggerBatch Trigger = "batch"
)

// Run is one recorded cue execution.
type Run struct {
	ID         string    `json:"id"`
	CueName    string    `json:"cue_name"`
	Trigger    Trigger   `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
}
