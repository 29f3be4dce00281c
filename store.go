package gpuscale

import "sync"

// Store is a process-wide key/value store that owns the lifetime of its
// values. SetData registers destructor to run when the value is replaced
// or the store is torn down.
type Store interface {
	GetData(key string) (any, bool)
	SetData(key string, value any, destructor func())
}

type property struct {
	value      any
	destructor func()
}

// PropertyStore is an in-memory Store. Destructors run in reverse order of
// registration on Close.
//
// PropertyStore is safe for concurrent use.
type PropertyStore struct {
	mu    sync.Mutex
	items map[string]property
	order []string
}

// NewPropertyStore creates an empty store.
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{items: make(map[string]property)}
}

// GetData returns the value stored under key.
func (s *PropertyStore) GetData(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[key]
	return p.value, ok
}

// SetData stores value under key. An existing value under the same key is
// destroyed first. A nil value removes the key.
func (s *PropertyStore) SetData(key string, value any, destructor func()) {
	s.mu.Lock()
	old, existed := s.items[key]
	if existed {
		delete(s.items, key)
		s.removeKey(key)
	}
	if value != nil {
		s.items[key] = property{value: value, destructor: destructor}
		s.order = append(s.order, key)
	}
	s.mu.Unlock()

	if existed && old.destructor != nil {
		old.destructor()
	}
}

// Len returns the number of stored values.
func (s *PropertyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close removes every value, running destructors newest first.
func (s *PropertyStore) Close() error {
	s.mu.Lock()
	items, order := s.items, s.order
	s.items = make(map[string]property)
	s.order = nil
	s.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		if d := items[order[i]].destructor; d != nil {
			d()
		}
	}
	return nil
}

func (s *PropertyStore) removeKey(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
