package cue

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Table is the in-memory cue list backing the document at Path. Surfaces
// select cues by name; edits replace the whole table and rewrite the
// document atomically.
//
// Thread Safety: all methods are safe for concurrent use.
type Table struct {
	path string

	mu   sync.RWMutex
	cues []Cue
}

// NewTable creates a Table over the cue document at path. Call Load before
// serving lookups.
func NewTable(path string) *Table {
	return &Table{path: path}
}

// Path returns the document location backing the table.
func (t *Table) Path() string {
	return t.path
}

// Load reads the document tolerantly and swaps the table contents. A
// missing document leaves the table empty rather than failing, so a fresh
// deployment starts with no cues.
func (t *Table) Load() error {
	cues, err := LoadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cues = nil
		} else {
			return err
		}
	}
	t.mu.Lock()
	t.cues = cues
	t.mu.Unlock()
	return nil
}

// LoadBatch re-reads the document strictly for batch execution. Every cue
// must carry an integer order and exact true/false switch spellings, and a
// cue with neither switch children nor a sequence reference is rejected
// rather than silently sent as all-false.
func (t *Table) LoadBatch() ([]Cue, error) {
	return LoadBatchFile(t.path)
}

// All returns a copy of the table in display order.
func (t *Table) All() []Cue {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Cue(nil), t.cues...)
}

// Get returns the cue with the given name.
func (t *Table) Get(name string) (Cue, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, c := range t.cues {
		if c.Name == name {
			return c, nil
		}
	}
	return Cue{}, fmt.Errorf("%w: %q", ErrCueNotFound, name)
}

// Len returns the number of cues in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.cues)
}

// Replace validates the new cue list, writes it to the document atomically,
// and swaps the table contents. Each cue must pass Validate; order remains
// optional here, since the interactive path tolerates unordered cues.
func (t *Table) Replace(cues []Cue) error {
	for i := range cues {
		if err := cues[i].Validate(); err != nil {
			return fmt.Errorf("cue %d: %w", i, err)
		}
	}

	sorted := append([]Cue(nil), cues...)
	SortByOrder(sorted)

	if err := SaveFile(t.path, sorted); err != nil {
		return err
	}

	t.mu.Lock()
	t.cues = sorted
	t.mu.Unlock()
	return nil
}
