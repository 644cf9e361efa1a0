package cue

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tableFixture(t *testing.T) *Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cues.xml")
	cues := []Cue{
		{Name: "Blackout", Order: intPtr(1)},
		{Name: "Warmers", Order: intPtr(2), SequenceRef: "warmup"},
	}
	if err := SaveFile(path, cues); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	table := NewTable(path)
	if err := table.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return table
}

func TestTable_Get(t *testing.T) {
	table := tableFixture(t)

	c, err := table.Get("Warmers")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if c.SequenceRef != "warmup" {
		t.Errorf("SequenceRef = %q, want warmup", c.SequenceRef)
	}

	_, err = table.Get("Ghost")
	if !errors.Is(err, ErrCueNotFound) {
		t.Fatalf("Get(Ghost) = %v, want ErrCueNotFound", err)
	}
}

func TestTable_LoadMissingDocument(t *testing.T) {
	table := NewTable(filepath.Join(t.TempDir(), "absent.xml"))
	if err := table.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil for missing document", err)
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
}

func TestTable_ReplacePersistsAndSorts(t *testing.T) {
	table := tableFixture(t)

	next := []Cue{
		{Name: "Late", Order: intPtr(9)},
		{Name: "Early", Order: intPtr(1)},
		{Name: "Unordered"},
	}
	if err := table.Replace(next); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	all := table.All()
	if len(all) != 3 {
		t.Fatalf("Len = %d, want 3", len(all))
	}
	if all[0].Name != "Early" || all[1].Name != "Late" || all[2].Name != "Unordered" {
		t.Errorf("order = [%s %s %s]", all[0].Name, all[1].Name, all[2].Name)
	}

	// A fresh table over the same document sees the replacement.
	reloaded := NewTable(table.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if _, err := reloaded.Get("Early"); err != nil {
		t.Errorf("replacement not persisted: %v", err)
	}
	if _, err := reloaded.Get("Blackout"); !errors.Is(err, ErrCueNotFound) {
		t.Error("old cues should be gone after Replace")
	}
}

func TestTable_LoadBatchReadsDiskStrictly(t *testing.T) {
	table := tableFixture(t)

	cues, err := table.LoadBatch()
	if err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("LoadBatch() = %d cues, want 2", len(cues))
	}

	// Strict parsing applies to the on-disk document, not the in-memory
	// table: a switchless, sequence-less cue written behind the table's
	// back is rejected.
	doc := `<Cues><Cue name="hollow" order="1"></Cue></Cues>`
	if err := os.WriteFile(table.Path(), []byte(doc), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := table.LoadBatch(); !errors.Is(err, ErrNoSwitches) {
		t.Fatalf("LoadBatch() = %v, want ErrNoSwitches", err)
	}
}

func TestTable_ReplaceRejectsInvalidCue(t *testing.T) {
	table := tableFixture(t)

	err := table.Replace([]Cue{{Name: ""}})
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("Replace() = %v, want ErrInvalidName", err)
	}

	// Rejected replacement leaves table and document untouched.
	if _, getErr := table.Get("Blackout"); getErr != nil {
		t.Error("failed Replace must not change the table")
	}
	if _, statErr := os.Stat(table.Path()); statErr != nil {
		t.Errorf("document missing after failed Replace: %v", statErr)
	}
}
