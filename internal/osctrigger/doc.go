// Package osctrigger provides an OSC listener that selects cues.
//
// Show-control consoles and lighting desks speak OSC natively; the listener
// lets them drive the switchboard without touching the HTTP API. A message
// to /cueboard/select with a single string argument (the cue name) is routed
// through the same debounce coordinator as an API selection, so rapid cue
// scrubbing from a console fader coalesces exactly like rapid clicks.
//
// The listener is optional and controlled by the osc section of the config
// file.
package osctrigger
