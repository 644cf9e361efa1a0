// Package dispatch coordinates interactive cue selection against a slow
// relay device.
//
// Selections arrive faster than the device can absorb them: an operator
// scrubbing through a cue list fires many selection events per second, but
// only the one they settle on should reach hardware. The coordinator
// debounces selections over a quiet interval, coalescing rapid
// re-selections into a single device send, and tags every send with a
// monotonic generation number so results of superseded sends are discarded
// instead of overwriting newer state.
//
// Selection is acknowledged to observers immediately, before the debounce
// window closes, so UIs track the operator without waiting on hardware.
package dispatch
