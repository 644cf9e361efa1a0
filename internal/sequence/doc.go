// Package sequence loads, stores, and watches timed switch sequences.
//
// A sequence is an ordered list of steps, each naming a switch, a target
// position, and a delay to wait after the command is sent. Sequences live as
// XML documents in a configurable directory and are referenced from cues by
// file name, with or without extension.
//
// The Store caches parsed sequences and serves them to the executor; an
// optional Watcher invalidates the cache when files change on disk, so
// edits take effect without a restart.
package sequence
