// Package cue defines the cue data model for Cueboard Core.
//
// A cue is a named, orderable unit of relay device state: either a direct
// vector of eight switch positions, or a reference to a stored sequence of
// timed steps. Cues are produced by external editors, persisted as a <Cues>
// XML document, and executed by the executor package.
//
// # Key Types
//
//   - Cue: the core entity (name, sort order, sequence reference, delay,
//     eight switch booleans)
//   - Pair: one (channel, state) element of the device wire payload
//
// # Switch-state codec
//
// The relay device addresses outlets by zero-based channel. Switch N on a
// cue maps to channel N-1:
//
//	pairs := c.Pairs()
//	// pairs[0] == {Channel: 0, State: c.Switches[0]}
//	// ...
//	// pairs[7] == {Channel: 7, State: c.Switches[7]}
//
// # Ordering
//
// Order is an advisory sort key and is not unique. SortByOrder places cues
// with a missing order after all ordered cues, keeping the original relative
// position among ties. Batch execution is stricter: every cue must carry an
// order (see ValidateBatch), matching the behaviour of the interactive
// switchboard this engine was extracted from.
package cue
