package hashmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapGetPut(t *testing.T) {
	m := New[int](4)
	_, ok := m.Get("a")
	assert.False(t, ok)

	m.Put("a", 1)
	m.Put("b", 2)
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, m.Has("b"))
	assert.Equal(t, 2, m.Len())
}

func TestMapIter(t *testing.T) {
	m := New[int](4)
	m.Put("a", 1)
	m.Put("b", 2)

	seen := map[string]int{}
	m.Iter(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, seen)
}
