package executor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/relay"
	"github.com/ovationworks/cueboard-core/internal/sequence"
)

// ─── Mocks ───────────────────────────────────────────────────────────────────

// mockSender records every Send call and can fail on a chosen call number.
type mockSender struct {
	mu     sync.Mutex
	calls  [][]cue.Pair
	failOn int // 1-based call number to fail on; 0 never fails
	err    error
}

func (m *mockSender) Send(ctx context.Context, pairs []cue.Pair) (*relay.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]cue.Pair(nil), pairs...))
	if m.failOn != 0 && len(m.calls) == m.failOn {
		return nil, m.err
	}
	return &relay.Result{Status: 200, Body: "OK"}, nil
}

func (m *mockSender) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockSender) call(i int) []cue.Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

// mockResolver serves sequences from a map.
type mockResolver struct {
	sequences map[string][]sequence.Step
}

func (m *mockResolver) Load(name string) ([]sequence.Step, error) {
	steps, ok := m.sequences[name]
	if !ok {
		return nil, sequence.ErrNotFound
	}
	return steps, nil
}

// mockRepository records created runs.
type mockRepository struct {
	mu   sync.Mutex
	runs []Run
}

func (m *mockRepository) CreateRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	return nil, ErrRunNotFound
}

func (m *mockRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Run(nil), m.runs...), nil
}

func (m *mockRepository) ListRunsByCue(ctx context.Context, cueName string, limit int) ([]Run, error) {
	return nil, nil
}

func intPtr(n int) *int { return &n }

// ─── Single Cue Runs ─────────────────────────────────────────────────────────

func TestRun_SwitchVectorSendsOneBatch(t *testing.T) {
	sender := &mockSender{}
	runner := NewRunner(sender, &mockResolver{}, nil, nil)

	c := cue.Cue{Name: "Blackout"}
	c.Switches[0] = true
	c.Switches[4] = true

	if _, err := runner.Run(context.Background(), c, TriggerAPI); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if sender.callCount() != 1 {
		t.Fatalf("sends = %d, want 1", sender.callCount())
	}
	pairs := sender.call(0)
	if len(pairs) != cue.NumSwitches {
		t.Fatalf("len(pairs) = %d, want %d", len(pairs), cue.NumSwitches)
	}
	if !pairs[0].State || !pairs[4].State || pairs[1].State {
		t.Errorf("unexpected pair states: %+v", pairs)
	}
}

func TestRun_SequenceSendsPerStep(t *testing.T) {
	sender := &mockSender{}
	resolver := &mockResolver{sequences: map[string][]sequence.Step{
		"warmup": {
			{Switch: 2, Position: true, DelayMS: 20},
			{Switch: 2, Position: false},
		},
	}}
	runner := NewRunner(sender, resolver, nil, nil)

	c := cue.Cue{Name: "Warmers", SequenceRef: "warmup"}
	start := time.Now()
	if _, err := runner.Run(context.Background(), c, TriggerAPI); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	elapsed := time.Since(start)

	if sender.callCount() != 2 {
		t.Fatalf("sends = %d, want 2", sender.callCount())
	}
	first, second := sender.call(0), sender.call(1)
	if len(first) != 1 || first[0].Channel != 1 || !first[0].State {
		t.Errorf("first send = %+v, want [{1 true}]", first)
	}
	if len(second) != 1 || second[0].Channel != 1 || second[0].State {
		t.Errorf("second send = %+v, want [{1 false}]", second)
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("elapsed = %v, want at least the step delay", elapsed)
	}
}

func TestRun_SequenceAbortsOnStepFailure(t *testing.T) {
	deviceErr := errors.New("connection refused")
	sender := &mockSender{failOn: 2, err: deviceErr}
	resolver := &mockResolver{sequences: map[string][]sequence.Step{
		"triple": {
			{Switch: 1, Position: true},
			{Switch: 2, Position: true},
			{Switch: 3, Position: true},
		},
	}}
	runner := NewRunner(sender, resolver, nil, nil)

	_, err := runner.Run(context.Background(), cue.Cue{Name: "x", SequenceRef: "triple"}, TriggerAPI)

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Run() = %v, want *StepError", err)
	}
	if stepErr.Sequence != "triple" || stepErr.Index != 1 {
		t.Errorf("StepError = %+v, want sequence triple step 1", stepErr)
	}
	if !errors.Is(err, deviceErr) {
		t.Error("StepError should wrap the device error")
	}
	if sender.callCount() != 2 {
		t.Errorf("sends = %d, want 2 (no step after the failure)", sender.callCount())
	}
}

func TestRun_UnknownSequence(t *testing.T) {
	runner := NewRunner(&mockSender{}, &mockResolver{}, nil, nil)

	_, err := runner.Run(context.Background(), cue.Cue{Name: "x", SequenceRef: "ghost"}, TriggerAPI)
	if !errors.Is(err, sequence.ErrNotFound) {
		t.Fatalf("Run() = %v, want sequence.ErrNotFound", err)
	}
}

func TestRun_RecordsHistory(t *testing.T) {
	repo := &mockRepository{}
	sender := &mockSender{failOn: 1, err: errors.New("boom")}
	runner := NewRunner(sender, &mockResolver{}, repo, nil)

	ok := cue.Cue{Name: "good"}
	runner2 := NewRunner(&mockSender{}, &mockResolver{}, repo, nil)
	if _, err := runner2.Run(context.Background(), ok, TriggerOSC); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := runner.Run(context.Background(), cue.Cue{Name: "bad"}, TriggerAPI); err == nil {
		t.Fatal("Run() expected error")
	}

	runs, _ := repo.ListRuns(context.Background(), 10)
	if len(runs) != 2 {
		t.Fatalf("recorded runs = %d, want 2", len(runs))
	}
	if runs[0].CueName != "good" || !runs[0].OK || runs[0].Trigger != TriggerOSC {
		t.Errorf("first run = %+v", runs[0])
	}
	if runs[1].CueName != "bad" || runs[1].OK || runs[1].Error == "" {
		t.Errorf("second run = %+v", runs[1])
	}
	if runs[0].ID == "" || runs[0].ID == runs[1].ID {
		t.Error("runs should carry unique IDs")
	}
}

// ─── Batch Runs ──────────────────────────────────────────────────────────────

func TestRunAll_EmptyBatch(t *testing.T) {
	runner := NewRunner(&mockSender{}, &mockResolver{}, nil, nil)
	if err := runner.RunAll(context.Background(), nil, TriggerBatch); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("RunAll() = %v, want ErrEmptyBatch", err)
	}
}

func TestRunAll_RequiresOrder(t *testing.T) {
	sender := &mockSender{}
	runner := NewRunner(sender, &mockResolver{}, nil, nil)

	cues := []cue.Cue{
		{Name: "ordered", Order: intPtr(1)},
		{Name: "unordered"},
	}
	err := runner.RunAll(context.Background(), cues, TriggerBatch)
	if !errors.Is(err, cue.ErrMissingOrder) {
		t.Fatalf("RunAll() = %v, want cue.ErrMissingOrder", err)
	}
	if sender.callCount() != 0 {
		t.Error("validation failure must not touch the device")
	}
}

func TestRunAll_ExecutesInOrder(t *testing.T) {
	sender := &mockSender{}
	runner := NewRunner(sender, &mockResolver{}, nil, nil)

	third := cue.Cue{Name: "third", Order: intPtr(30)}
	third.Switches[2] = true
	first := cue.Cue{Name: "first", Order: intPtr(10)}
	first.Switches[0] = true
	second := cue.Cue{Name: "second", Order: intPtr(20)}
	second.Switches[1] = true

	if err := runner.RunAll(context.Background(), []cue.Cue{third, first, second}, TriggerBatch); err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	if sender.callCount() != 3 {
		t.Fatalf("sends = %d, want 3", sender.callCount())
	}
	for i, wantChannel := range []int{0, 1, 2} {
		if !sender.call(i)[wantChannel].State {
			t.Errorf("send %d: channel %d not set; batch order wrong", i, wantChannel)
		}
	}
}

func TestRunAll_AbortsAtFirstFailure(t *testing.T) {
	sender := &mockSender{failOn: 2, err: errors.New("device offline")}
	runner := NewRunner(sender, &mockResolver{}, nil, nil)

	cues := []cue.Cue{
		{Name: "a", Order: intPtr(1)},
		{Name: "b", Order: intPtr(2)},
		{Name: "c", Order: intPtr(3)},
	}
	err := runner.RunAll(context.Background(), cues, TriggerBatch)
	if err == nil {
		t.Fatal("RunAll() expected error")
	}
	if !strings.Contains(err.Error(), `"b"`) {
		t.Errorf("error should name the failing cue: %v", err)
	}
	if sender.callCount() != 2 {
		t.Errorf("sends = %d, want 2 (batch stops at first failure)", sender.callCount())
	}
}

func TestRunAll_CancelledDuringDelay(t *testing.T) {
	sender := &mockSender{}
	runner := NewRunner(sender, &mockResolver{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	cues := []cue.Cue{
		{Name: "a", Order: intPtr(1), DelayMS: 5000},
		{Name: "b", Order: intPtr(2)},
	}
	err := runner.RunAll(ctx, cues, TriggerBatch)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunAll() = %v, want context.Canceled", err)
	}
	if sender.callCount() != 1 {
		t.Errorf("sends = %d, want 1 (cancellation stops the batch)", sender.callCount())
	}
}
