package sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
)

// File permissions for saved sequence documents.
const documentPermissions = 0600

// Permission mode for the sequence directory when Save creates it.
const dirPermissions = 0750

// defaultExtension is appended when a sequence is referenced or saved
// without one.
const defaultExtension = ".xml"

// Store serves parsed sequences from a directory, caching results until
// invalidated. Cues reference sequences by file name, with or without the
// .xml extension.
//
// Thread Safety: all methods are safe for concurrent use.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string][]Step
}

// NewStore creates a Store over the given sequence directory. The directory
// is not required to exist until the first Load or Save.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string][]Step),
	}
}

// Dir returns the directory the store serves sequences from.
func (s *Store) Dir() string {
	return s.dir
}

// normalize validates a sequence name and strips the optional extension so
// "warmup" and "warmup.xml" address the same sequence.
func normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return strings.TrimSuffix(name, defaultExtension), nil
}

// path returns the on-disk location for a normalized sequence name.
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+defaultExtension)
}

// Load returns the steps of the named sequence, reading and parsing the
// file on first use and serving the cached result afterwards.
//
// Returns ErrInvalidName for unusable names, ErrNotFound when no file
// exists for the name, and ErrInvalidDocument for unparseable content.
func (s *Store) Load(name string) ([]Step, error) {
	key, err := normalize(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	steps, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		// Callers get their own copy; mutating it must not poison the cache.
		return slices.Clone(steps), nil
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return nil, fmt.Errorf("reading sequence %q: %w", key, err)
	}

	steps, err = Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sequence %q: %w", key, err)
	}

	s.mu.Lock()
	s.cache[key] = steps
	s.mu.Unlock()
	return slices.Clone(steps), nil
}

// Save writes the named sequence atomically and refreshes the cache entry.
// The content lands in a temp file in the sequence directory, then renames
// over the target, so a crash mid-write never corrupts the previous file.
func (s *Store) Save(name string, steps []Step) error {
	key, err := normalize(name)
	if err != nil {
		return err
	}

	data, err := Marshal(steps)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, dirPermissions); err != nil {
		return fmt.Errorf("creating sequence directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".seq-*.xml")
	if err != nil {
		return fmt.Errorf("creating temp sequence file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing sequence %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing sequence %q: %w", key, err)
	}
	if err := os.Chmod(tmpName, documentPermissions); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting sequence permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing sequence %q: %w", key, err)
	}

	s.mu.Lock()
	s.cache[key] = slices.Clone(steps)
	s.mu.Unlock()
	return nil
}

// List returns the names of all sequences in the directory, sorted, without
// extensions. A missing directory yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing sequences: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), defaultExtension) {
			continue
		}
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), defaultExtension))
	}
	sort.Strings(names)
	return names, nil
}

// Invalidate drops the cache entry for one sequence so the next Load
// re-reads the file.
func (s *Store) Invalidate(name string) {
	key, err := normalize(name)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
}

// InvalidateAll drops every cached sequence.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]Step)
	s.mu.Unlock()
}
