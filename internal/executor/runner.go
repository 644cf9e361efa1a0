package executor

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/relay"
)

// Runner executes cues against a relay device.
//
// Thread Safety: Runner is safe for concurrent use; it holds no mutable
// state of its own. Callers serialise runs themselves when overlapping
// device traffic is unwanted (the dispatch coordinator does).
type Runner struct {
	device    Sender
	sequences SequenceResolver
	history   Repository
	logger    Logger
	metrics   Metrics
}

// NewRunner creates a Runner. The history repository and logger are
// optional; nil disables run recording and logging respectively.
func NewRunner(device Sender, sequences SequenceResolver, history Repository, logger Logger) *Runner {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Runner{
		device:    device,
		sequences: sequences,
		history:   history,
		logger:    logger,
	}
}

// SetMetrics attaches a telemetry sink for completed runs.
func (r *Runner) SetMetrics(m Metrics) {
	r.metrics = m
}

// Run executes one cue and records the outcome. On success the returned
// message carries the device's HTTP status and body snippet for display.
//
// A cue with a sequence reference resolves the sequence and sends each step
// individually, waiting the step's delay after each send and aborting on
// the first failure. A cue without one sends its full switch vector as a
// single batch.
func (r *Runner) Run(ctx context.Context, c cue.Cue, trigger Trigger) (string, error) {
	started := time.Now()
	msg, err := r.execute(ctx, c)
	r.record(ctx, c.Name, trigger, started, err)
	if r.metrics != nil {
		r.metrics.RecordSend(c.Name, trigger, err == nil, time.Since(started).Milliseconds())
	}

	if err != nil {
		r.logger.Error("cue run failed", "cue", c.Name, "trigger", string(trigger), "error", err)
		return "", err
	}
	r.logger.Info("cue run complete",
		"cue", c.Name,
		"trigger", string(trigger),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return msg, nil
}

// RunAll executes a cue list as an ordered batch.
//
// The whole list is validated up front: every cue must pass its own checks
// and carry an explicit order. Cues then run lowest order first (ties keep
// list position), waiting each cue's delay after it completes. The first
// failing cue aborts the batch; remaining cues do not run.
func (r *Runner) RunAll(ctx context.Context, cues []cue.Cue, trigger Trigger) error {
	if len(cues) == 0 {
		return ErrEmptyBatch
	}
	if err := cue.ValidateBatch(cues); err != nil {
		return err
	}

	ordered := slices.Clone(cues)
	cue.SortByOrder(ordered)

	r.logger.Info("batch run started", "cues", len(ordered), "trigger", string(trigger))
	for i, c := range ordered {
		if _, err := r.Run(ctx, c, trigger); err != nil {
			return fmt.Errorf("cue %q: %w", c.Name, err)
		}
		// The final cue's delay has nothing to pace.
		if i < len(ordered)-1 {
			if err := wait(ctx, c.DelayMS); err != nil {
				return fmt.Errorf("cue %q: %w", c.Name, err)
			}
		}
	}
	r.logger.Info("batch run complete", "cues", len(ordered))
	return nil
}

// execute performs the device traffic for one cue.
func (r *Runner) execute(ctx context.Context, c cue.Cue) (string, error) {
	if c.SequenceRef != "" {
		return r.runSequence(ctx, c.SequenceRef)
	}
	res, err := r.device.Send(ctx, c.Pairs())
	if err != nil {
		return "", err
	}
	return resultMessage(res), nil
}

// runSequence sends each step of the named sequence, pausing the step's
// delay after each send. The first failing step aborts the remainder.
func (r *Runner) runSequence(ctx context.Context, name string) (string, error) {
	steps, err := r.sequences.Load(name)
	if err != nil {
		return "", err
	}

	var last *relay.Result
	for i, step := range steps {
		pair := []cue.Pair{{Channel: step.Channel(), State: step.Position}}
		res, err := r.device.Send(ctx, pair)
		if err != nil {
			return "", &StepError{Sequence: name, Index: i, Err: err}
		}
		last = res
		if err := wait(ctx, step.DelayMS); err != nil {
			return "", &StepError{Sequence: name, Index: i, Err: err}
		}
	}
	if last == nil {
		return "no steps", nil
	}
	return fmt.Sprintf("%d steps, %s", len(steps), resultMessage(last)), nil
}

// resultMessage formats a device result for status display.
func resultMessage(res *relay.Result) string {
	if res.Body == "" {
		return fmt.Sprintf("HTTP %d", res.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", res.Status, res.Body)
}

// record persists one run in the history repository, best effort.
func (r *Runner) record(ctx context.Context, cueName string, trigger Trigger, started time.Time, runErr error) {
	if r.history == nil {
		return
	}

	run := Run{
		ID:         uuid.New().String(),
		CueName:    cueName,
		Trigger:    trigger,
		StartedAt:  started,
		DurationMS: time.Since(started).Milliseconds(),
		OK:         runErr == nil,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	// Cancelled runs still get recorded.
	if err := r.history.CreateRun(context.WithoutCancel(ctx), &run); err != nil {
		r.logger.Warn("recording run failed", "cue", cueName, "error", err)
	}
}

// wait sleeps for ms milliseconds or until the context is cancelled.
func wait(ctx context.Context, ms int) error {
	if ms <= 0 {
		return nil
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
