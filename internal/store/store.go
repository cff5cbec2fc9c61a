package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yuzeguitarist/qrdrop/internal/app"
)

var (
	// ErrMalformed is returned by Load when the mapping document exists but is not valid JSON.
	ErrMalformed = errors.New("malformed mapping document")
	// ErrNameTaken is returned by Resolve when a requested name already
	// belongs to another data string.
	ErrNameTaken = errors.New("qr name already in use")
)

// Table maps a data string to the filename of its QR image.
type Table map[string]string

// RenderFunc writes the QR image for data under filename.
type RenderFunc func(data, filename string) error

// Result describes how Resolve satisfied a data string.
type Result struct {
	Filename string
	Created  bool
}

// Store owns the mapping table and its backing document. The in-memory table
// is the source of truth; every mutation rewrites the whole document.
type Store struct {
	path  string
	mu    sync.RWMutex
	table Table
}

// Load reads the document at path. A missing document yields an empty store.
func Load(path string) (*Store, error) {
	s := &Store{path: path, table: Table{}}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformed, path, err)
	}
	if t != nil {
		s.table = t
	}
	return s, nil
}

// Lookup returns the filename mapped to data under the read lock.
func (s *Store) Lookup(data string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.table[data]
	return fn, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}

// Snapshot returns a copy of the table.
func (s *Store) Snapshot() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(Table, len(s.table))
	for k, v := range s.table {
		cp[k] = v
	}
	return cp
}

// Save rewrites the backing document from the in-memory table.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// Resolve returns the filename mapped to data, creating it when absent.
// A new filename is name+".png", or qr_<n>.png with n = table size + 1 when
// name is empty. A requested name already mapped to other data fails with
// ErrNameTaken and nothing is rendered. render, the insert and the save all
// run under the write lock so concurrent callers never derive the same name
// or lose an entry.
func (s *Store) Resolve(data, name string, render RenderFunc) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fn, ok := s.table[data]; ok {
		return Result{Filename: fn}, nil
	}
	if name == "" {
		name = fmt.Sprintf("qr_%d", len(s.table)+1)
	} else if s.hasFilenameLocked(name + ".png") {
		return Result{}, fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	filename := name + ".png"
	if err := render(data, filename); err != nil {
		return Result{}, err
	}
	s.table[data] = filename
	if err := s.saveLocked(); err != nil {
		delete(s.table, data)
		return Result{}, err
	}
	return Result{Filename: filename, Created: true}, nil
}

func (s *Store) hasFilenameLocked(filename string) bool {
	for _, fn := range s.table {
		if fn == filename {
			return true
		}
	}
	return false
}

func (s *Store) saveLocked() error {
	b, err := json.MarshalIndent(s.table, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return app.AtomicWriteFile(s.path, 0644, b)
}
