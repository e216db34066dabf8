package engine

import (
	"sync"
)

// Source loads a dataset at most once per process. The cached store is
// shared read-only by every request; only a restart reloads the file.
type Source struct {
	path string

	once  sync.Once
	store *ColumnStore
	err   error
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Path() string {
	return s.path
}

// Store returns the memoized dataset, loading it on first use. A failed load
// is memoized as well.
func (s *Source) Store() (*ColumnStore, error) {
	s.once.Do(func() {
		s.store, s.err = LoadColumnar(s.path)
	})
	return s.store, s.err
}
