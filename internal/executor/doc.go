// Package executor turns cues into relay commands.
//
// A cue either carries its own switch vector, sent to the device as one
// batch, or references a named sequence, in which case each step is sent
// individually with its configured delay. Batch runs validate and order the
// whole cue list up front, then execute cue by cue, stopping at the first
// failure.
//
// Every top-level run is recorded in the run history repository when one is
// configured.
package executor
