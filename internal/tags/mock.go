package tags

import (
	"errors"
	"sort"
)

// ErrNotAudio is returned by MemoryStore for paths it does not hold.
var ErrNotAudio = errors.New("not a supported audio file")

// MemoryStore is an in-memory test double for the codec: each path maps to
// a tag mapping that MemoryFile handles read and write.
type MemoryStore struct {
	files map[string]map[string][]string
	saves map[string]int
	open  map[string]int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files: make(map[string]map[string][]string),
		saves: make(map[string]int),
		open:  make(map[string]int),
	}
}

// Add registers path as an audio file with the given tags.
func (s *MemoryStore) Add(path string, m map[string][]string) {
	s.files[path] = cloneTags(m)
}

// Get returns the stored tags of path.
func (s *MemoryStore) Get(path string) (map[string][]string, bool) {
	m, ok := s.files[path]
	if !ok {
		return nil, false
	}
	return cloneTags(m), true
}

// Saves returns how many times path was saved.
func (s *MemoryStore) Saves(path string) int {
	return s.saves[path]
}

// OpenHandles returns the paths with handles still open.
func (s *MemoryStore) OpenHandles() []string {
	var paths []string
	for p, n := range s.open {
		if n > 0 {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// Open opens a handle on a registered path.
func (s *MemoryStore) Open(path string) (*MemoryFile, error) {
	m, ok := s.files[path]
	if !ok {
		return nil, ErrNotAudio
	}
	s.open[path]++
	return &MemoryFile{store: s, path: path, pending: cloneTags(m)}, nil
}

// MemoryFile is a handle returned by MemoryStore.Open.
type MemoryFile struct {
	store   *MemoryStore
	path    string
	pending map[string][]string
	closed  bool
}

func (f *MemoryFile) Tags() map[string][]string {
	return cloneTags(f.store.files[f.path])
}

func (f *MemoryFile) SetTags(m map[string][]string) {
	f.pending = cloneTags(m)
}

func (f *MemoryFile) Save() error {
	if f.closed {
		return ErrClosed
	}
	f.store.files[f.path] = cloneTags(f.pending)
	f.store.saves[f.path]++
	return nil
}

func (f *MemoryFile) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	f.store.open[f.path]--
	return nil
}
