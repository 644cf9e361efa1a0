package cue

import "errors"

// Domain errors for the cue package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, cue.ErrMissingOrder) {
//	    // handle validation case
//	}
var (
	// ErrInvalidName is returned when a cue name is empty.
	ErrInvalidName = errors.New("cue: invalid name")

	// ErrMissingOrder is returned when a cue lacks the order required for
	// batch execution.
	ErrMissingOrder = errors.New("cue: missing required order")

	// ErrInvalidOrder is returned when an order value is not an integer.
	ErrInvalidOrder = errors.New("cue: invalid order")

	// ErrInvalidDelay is returned when a delay value is not an integer
	// number of milliseconds.
	ErrInvalidDelay = errors.New("cue: invalid delay")

	// ErrInvalidSwitch is returned when a switch element carries a value
	// other than true/false.
	ErrInvalidSwitch = errors.New("cue: invalid switch value")

	// ErrNoSwitches is returned when a batch cue defines no switch states
	// and names no sequence, so it would produce no device command.
	ErrNoSwitches = errors.New("cue: no switch settings")

	// ErrInvalidDocument is returned when a cue document is structurally
	// invalid (wrong root element, malformed XML).
	ErrInvalidDocument = errors.New("cue: invalid document")

	// ErrCueNotFound is returned when no cue in the table matches the
	// requested name.
	ErrCueNotFound = errors.New("cue: not found")
)
