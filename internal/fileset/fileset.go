// Package fileset holds a batch of decoded text files keyed by their
// root-relative path, and moves it between disk and memory.
//
// Keys use forward slashes and never start with a slash. Every operation
// that walks a FileSet visits keys in sorted order, so output is
// deterministic regardless of how the set was filled.
package fileset

import (
	"sort"
	"sync"
)

// FileSet maps root-relative keys to file content. It is safe for
// concurrent use; the transform step may update entries from several
// goroutines as long as each goroutine owns its own keys.
type FileSet struct {
	mu    sync.RWMutex
	files map[string]string
}

// New returns an empty FileSet.
func New() *FileSet {
	return &FileSet{files: make(map[string]string)}
}

// Put sets the content for key, replacing any previous value.
func (f *FileSet) Put(key, content string) {
	f.mu.Lock()
	f.files[key] = content
	f.mu.Unlock()
}

// Get returns the content for key.
func (f *FileSet) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.files[key]
	return v, ok
}

// Len returns the number of entries.
func (f *FileSet) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.files)
}

// Keys returns a sorted snapshot of the keys.
func (f *FileSet) Keys() []string {
	f.mu.RLock()
	keys := make([]string, 0, len(f.files))
	for k := range f.files {
		keys = append(keys, k)
	}
	f.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the entries.
func (f *FileSet) Map() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.files))
	for k, v := range f.files {
		out[k] = v
	}
	return out
}

// Range calls fn for every entry in key order and stops at the first error.
// The lock is not held while fn runs, so fn may call Put.
func (f *FileSet) Range(fn func(key, content string) error) error {
	for _, k := range f.Keys() {
		v, ok := f.Get(k)
		if !ok {
			continue
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

// TotalBytes returns the summed byte length of all content.
func (f *FileSet) TotalBytes() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var n int64
	for _, v := range f.files {
		n += int64(len(v))
	}
	return n
}
