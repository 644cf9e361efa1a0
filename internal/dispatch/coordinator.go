package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/executor"
)

// result is one completed device send, tagged with the generation of the
// selection that requested it.
type result struct {
	generation uint64
	cueName    string
	message    string
	err        error
}

// Coordinator debounces cue selections and serialises device sends.
//
// Every selection bumps a selection token and (re)arms a single debounce
// timer; a callback holding an older token is superseded and does nothing.
// When the current timer fires, a monotonic send generation is assigned and
// the selection is sent to the device on a worker goroutine; the result
// comes back over a channel consumed by Run. A result whose generation no
// longer matches the counter belongs to a superseded send and is discarded
// on dequeue without touching the published status. The generation is
// assigned at fire time, not at selection time, so a selection that is
// merely pending in its debounce window never invalidates the result of a
// send that already went out.
//
// Thread Safety: Select, Busy, and LastStatus are safe to call from any
// goroutine. Run must be called exactly once.
type Coordinator struct {
	runner   CueRunner
	sched    Scheduler
	notifier Notifier
	logger   Logger
	metrics  Metrics
	debounce time.Duration

	results chan result

	mu         sync.Mutex
	selections uint64 // bumped per Select; supersedes pending debounce callbacks
	generation uint64 // bumped per dispatched send; tags in-flight results
	coalesced  int    // selections merged into the pending window
	selected   cue.Cue
	trigger    executor.Trigger
	pending    Handle
	busy       bool
	shutdown   bool
	last       Status
	ctx        context.Context
}

// NewCoordinator creates a Coordinator. The notifier and logger are
// optional; nil disables the corresponding output.
func NewCoordinator(runner CueRunner, sched Scheduler, notifier Notifier, logger Logger, debounce time.Duration) *Coordinator {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Coordinator{
		runner:   runner,
		sched:    sched,
		notifier: notifier,
		logger:   logger,
		debounce: debounce,
		results:  make(chan result),
		ctx:      context.Background(),
	}
}

// SetMetrics attaches a telemetry sink for closed debounce windows.
func (c *Coordinator) SetMetrics(m Metrics) {
	c.metrics = m
}

// Run consumes send results until the context is cancelled. After
// cancellation the coordinator goes inert: pending debounce timers are
// stopped, in-flight sends are cancelled, and further selections are
// ignored.
func (c *Coordinator) Run(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			c.markShutdown()
			return nil
		case res := <-c.results:
			c.handleResult(res)
		}
	}
}

// Select records a cue selection. Observers are notified immediately; the
// device send waits out the debounce window, and a newer selection within
// the window supersedes this one entirely.
func (c *Coordinator) Select(selected cue.Cue, trigger executor.Trigger) {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return
	}

	c.selections++
	token := c.selections
	c.coalesced++
	c.selected = selected
	c.trigger = trigger

	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = c.sched.Schedule(c.debounce, func() { c.fire(token) })
	c.mu.Unlock()

	c.logger.Debug("cue selected", "cue", selected.Name, "trigger", string(trigger))
	c.notifier.NotifySelected(selected)
}

// Busy reports whether a device send is in flight.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// LastStatus returns the result of the most recent non-stale device send.
// The bool is false until the first send completes.
func (c *Coordinator) LastStatus() (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, !c.last.At.IsZero()
}

// fire runs when a debounce window closes. A token mismatch means a newer
// selection re-armed the timer after this callback was scheduled; a busy
// device defers the send by another debounce interval rather than
// overlapping requests. The send generation is assigned here, once the send
// actually dispatches.
func (c *Coordinator) fire(token uint64) {
	c.mu.Lock()
	if c.shutdown || token != c.selections {
		c.mu.Unlock()
		c.logger.Debug("debounce fire superseded")
		return
	}
	if c.busy {
		c.pending = c.sched.Schedule(c.debounce, func() { c.fire(token) })
		c.mu.Unlock()
		c.logger.Debug("device busy, send deferred")
		return
	}

	c.generation++
	gen := c.generation
	coalesced := c.coalesced
	c.coalesced = 0
	c.pending = nil
	c.busy = true
	selected := c.selected
	trigger := c.trigger
	ctx := c.ctx
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordDebounce(selected.Name, coalesced)
	}

	go func() {
		msg, err := c.runner.Run(ctx, selected, trigger)
		select {
		case c.results <- result{generation: gen, cueName: selected.Name, message: msg, err: err}:
		case <-ctx.Done():
		}
	}()
}

// handleResult publishes a completed send, unless a newer send dispatched
// while it was in flight, in which case the result is stale and dropped.
func (c *Coordinator) handleResult(res result) {
	c.mu.Lock()
	c.busy = false
	if res.generation != c.generation {
		c.mu.Unlock()
		c.logger.Debug("stale send result discarded", "cue", res.cueName)
		return
	}

	status := Status{
		CueName: res.cueName,
		OK:      res.err == nil,
		Message: res.message,
		At:      time.Now(),
	}
	if res.err != nil {
		status.Message = res.err.Error()
	}
	c.last = status
	c.mu.Unlock()

	if res.err != nil {
		c.logger.Error("cue send failed", "cue", res.cueName, "error", res.err)
	}
	c.notifier.NotifyStatus(status)
}

// markShutdown makes the coordinator inert.
func (c *Coordinator) markShutdown() {
	c.mu.Lock()
	c.shutdown = true
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.mu.Unlock()
	c.logger.Info("dispatch coordinator stopped")
}
