// Package hashmap provides a thin generic wrapper around dolthub/swiss's
// SwissTable map, used anywhere this module needs a string-keyed map with
// stable average-case O(1) lookup: the compiler's string pool and the
// checker's scope frames.
package hashmap

import "github.com/dolthub/swiss"

// Map is a hash map from string keys to values of type V.
type Map[V any] struct {
	m *swiss.Map[string, V]
}

// New returns a Map with initial capacity for at least size entries.
func New[V any](size int) *Map[V] {
	return &Map[V]{m: swiss.NewMap[string, V](uint32(size))}
}

// Get returns the value for key and whether it was present.
func (m *Map[V]) Get(key string) (V, bool) {
	return m.m.Get(key)
}

// Put sets the value for key, overwriting any previous value.
func (m *Map[V]) Put(key string, v V) {
	m.m.Put(key, v)
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int { return m.m.Count() }

// Iter calls f for every entry, in unspecified order. Iteration stops early
// if f returns false.
func (m *Map[V]) Iter(f func(key string, v V) bool) {
	m.m.Iter(f)
}
