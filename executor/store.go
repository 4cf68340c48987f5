package executor

import "sync"

// Store is the scenario-scoped scratch space for extraction steps. Values and
// lists live in separate namespaces. A fresh store is created per scenario so
// extracted data never leaks between scenarios.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	lists  map[string][]string
}

func NewStore() *Store {
	return &Store{
		values: make(map[string]string),
		lists:  make(map[string][]string),
	}
}

// SetValue stores a single value under key, replacing any previous one.
func (s *Store) SetValue(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Value returns the stored value for key.
func (s *Store) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// SetList stores a list under key, replacing any previous one.
func (s *Store) SetList(key string, items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append([]string(nil), items...)
}

// AppendList appends items to the list under key, creating it if absent.
func (s *Store) AppendList(key string, items ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], items...)
}

// List returns a copy of the stored list for key.
func (s *Store) List(key string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lists[key]
	if !ok {
		return nil, false
	}
	return append([]string(nil), l...), true
}

// Len reports how many values and lists are stored.
func (s *Store) Len() (values, lists int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values), len(s.lists)
}
