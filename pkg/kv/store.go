// Package kv provides a generic thread-safe key-value store whose iteration
// order is the sorted order of its keys.
package kv

import (
	"cmp"
	"iter"
	"slices"
	"sync"
)

// Store is a thread-safe generic key-value store. Keys, All and Neighbors
// observe ascending key order.
type Store[K cmp.Ordered, V any] struct {
	mu   sync.RWMutex
	data map[K]V
	keys []K // sorted, kept in step with data
}

// New creates a new key-value store.
func New[K cmp.Ordered, V any]() *Store[K, V] {
	return &Store[K, V]{
		data: make(map[K]V),
	}
}

// Get retrieves a value by key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// Has reports whether key is present.
func (s *Store[K, V]) Has(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

// Set stores a value by key.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, value)
}

func (s *Store[K, V]) set(key K, value V) {
	if _, ok := s.data[key]; !ok {
		i, _ := slices.BinarySearch(s.keys, key)
		s.keys = slices.Insert(s.keys, i, key)
	}
	s.data[key] = value
}

// Delete removes a key from the store.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	if i, found := slices.BinarySearch(s.keys, key); found {
		s.keys = slices.Delete(s.keys, i, i+1)
	}
}

// SetBatch stores multiple key-value pairs at once.
func (s *Store[K, V]) SetBatch(items map[K]V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range items {
		s.set(k, v)
	}
}

// Keys returns all keys in ascending order.
func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.keys)
}

// All iterates key-value pairs in ascending key order. The iteration works on
// a snapshot of the keys taken when it starts.
func (s *Store[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range s.Keys() {
			v, ok := s.Get(k)
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Neighbors returns the keys immediately before and after key in sorted
// order. ok is false when key is not present. At either end the missing
// neighbor is reported as key itself.
func (s *Store[K, V]) Neighbors(key K) (prev, next K, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, found := slices.BinarySearch(s.keys, key)
	if !found {
		return prev, next, false
	}

	prev, next = key, key
	if i > 0 {
		prev = s.keys[i-1]
	}
	if i < len(s.keys)-1 {
		next = s.keys[i+1]
	}
	return prev, next, true
}
