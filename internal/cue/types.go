package cue

import (
	"fmt"
	"sort"
)

// NumSwitches is the number of relay channels a cue addresses.
// The target device is an eight-outlet web power switch.
const NumSwitches = 8

// Cue represents a named, orderable unit of device state.
//
// A cue either carries its own switch vector (SequenceRef empty) or names a
// stored sequence to execute in its place. The eight switch booleans are
// always present; an unset switch is simply false.
type Cue struct {
	// Name is the display label. Must be non-empty.
	Name string `json:"name"`

	// Order is the advisory sort key. Nil means unset: such cues sort
	// after all ordered cues and are rejected by batch execution.
	Order *int `json:"order,omitempty"`

	// SequenceRef optionally names a stored sequence (extension-agnostic).
	// When set, the cue's own switch vector is ignored on execution.
	SequenceRef string `json:"sequence,omitempty"`

	// DelayMS is the pause applied after this cue's command(s) complete,
	// before the next cue in a batch run. Never negative.
	DelayMS int `json:"delay_ms"`

	// Switches holds the target state of switches 1..8 (index 0 = switch 1).
	Switches [NumSwitches]bool `json:"switches"`
}

// Pair is one element of the device wire payload: a zero-based channel
// index and its target state. It marshals to the two-element JSON array
// the relay REST API expects, e.g. [3,true].
type Pair struct {
	Channel int
	State   bool
}

// MarshalJSON encodes the pair as [channel, state].
func (p Pair) MarshalJSON() ([]byte, error) {
	state := "false"
	if p.State {
		state = "true"
	}
	return fmt.Appendf(nil, "[%d,%s]", p.Channel, state), nil
}

// Pairs encodes the cue's switch vector as the ordered list of
// (channel, state) pairs the device expects.
//
// Switch N maps to channel N-1; the result always has exactly NumSwitches
// elements in switch-number order. Pure function: no validation, no side
// effects.
func (c *Cue) Pairs() []Pair {
	pairs := make([]Pair, NumSwitches)
	for i := 0; i < NumSwitches; i++ {
		pairs[i] = Pair{Channel: i, State: c.Switches[i]}
	}
	return pairs
}

// HasOrder reports whether the cue carries a sort order.
func (c *Cue) HasOrder() bool {
	return c.Order != nil
}

// Validate checks the fields every cue must satisfy regardless of how it
// will be executed.
func (c *Cue) Validate() error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.DelayMS < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDelay, c.DelayMS)
	}
	return nil
}

// SortByOrder sorts cues ascending by order, in place.
//
// Cues without an order sort after all ordered cues. The sort is stable, so
// ties and unordered cues keep their original relative positions.
func SortByOrder(cues []Cue) {
	sort.SliceStable(cues, func(i, j int) bool {
		a, b := cues[i].Order, cues[j].Order
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// ValidateBatch checks that every cue is fit for batch execution: valid per
// Validate, and carrying an explicit order.
//
// The interactive single-cue path tolerates a missing order; the batch path
// deliberately does not. Returns the first offending cue's error, wrapped
// with its name.
func ValidateBatch(cues []Cue) error {
	for i := range cues {
		c := &cues[i]
		if err := c.Validate(); err != nil {
			return fmt.Errorf("cue %q: %w", c.Name, err)
		}
		if !c.HasOrder() {
			return fmt.Errorf("cue %q: %w", c.Name, ErrMissingOrder)
		}
	}
	return nil
}
