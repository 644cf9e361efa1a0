package osctrigger

import (
	"context"
	"fmt"
	"strings"

	"github.com/hypebeast/go-osc/osc"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/executor"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/config"
)

// selectAddress is the OSC address cue selections arrive on.
const selectAddress = "/cueboard/select"

// CueLookup resolves cue names against the active table.
type CueLookup interface {
	Get(name string) (cue.Cue, error)
}

// Selector dispatches a selected cue through the debounce pipeline.
type Selector interface {
	Select(c cue.Cue, trigger executor.Trigger)
}

// Logger is the logging interface used by the listener.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Listener receives OSC cue selections over UDP.
type Listener struct {
	cfg      config.OSCConfig
	table    CueLookup
	selector Selector
	logger   Logger
	server   *osc.Server
}

// New creates an OSC listener. The logger may be nil.
func New(cfg config.OSCConfig, table CueLookup, selector Selector, logger Logger) *Listener {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Listener{
		cfg:      cfg,
		table:    table,
		selector: selector,
		logger:   logger,
	}
}

// Run listens for OSC messages until the context is cancelled. It blocks,
// so callers run it in a goroutine.
func (l *Listener) Run(ctx context.Context) error {
	dispatcher := osc.NewStandardDispatcher()
	if err := dispatcher.AddMsgHandler(selectAddress, l.handleSelect); err != nil {
		return fmt.Errorf("registering OSC handler: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", l.cfg.Host, l.cfg.Port)
	l.server = &osc.Server{
		Addr:       addr,
		Dispatcher: dispatcher,
	}

	go func() {
		<-ctx.Done()
		//nolint:errcheck // Best-effort close on shutdown
		l.server.CloseConnection()
	}()

	l.logger.Info("OSC listener starting", "address", addr)
	err := l.server.ListenAndServe()
	if ctx.Err() != nil {
		// Shutdown closed the connection; the resulting read error is expected.
		return nil
	}
	return err
}

// handleSelect routes an incoming selection message to the coordinator.
// Messages without a string cue name, or naming an unknown cue, are logged
// and dropped; a console scrubbing through cues must never wedge the listener.
func (l *Listener) handleSelect(msg *osc.Message) {
	name, ok := cueNameArgument(msg)
	if !ok {
		l.logger.Warn("OSC select without cue name argument", "address", msg.Address)
		return
	}

	c, err := l.table.Get(name)
	if err != nil {
		l.logger.Warn("OSC select for unknown cue", "cue", name)
		return
	}

	l.logger.Debug("OSC cue selected", "cue", name)
	l.selector.Select(c, executor.TriggerOSC)
}

// cueNameArgument extracts the cue name from the message's first argument.
func cueNameArgument(msg *osc.Message) (string, bool) {
	if len(msg.Arguments) == 0 {
		return "", false
	}
	s, ok := msg.Arguments[0].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
