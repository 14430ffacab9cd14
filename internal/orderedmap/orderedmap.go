// Package orderedmap provides a minimal insertion-ordered string map.
//
// The record validator (C4) must report cell values in schema declaration
// order, not Go's randomized map iteration order, so a plain map[string]string
// cannot stand in for ProcessedLineOk.cell_values.
package orderedmap

// Map is an insertion-ordered string-to-string map.
type Map struct {
	keys   []string
	values map[string]string
}

// New returns an empty ordered map with capacity hinted by size.
func New(size int) *Map {
	return &Map{
		keys:   make([]string, 0, size),
		values: make(map[string]string, size),
	}
}

// Set inserts or updates a key. The key keeps its original position on
// update; new keys are appended in the order they're first set.
func (m *Map) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice must not be
// mutated by callers.
func (m *Map) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Each calls fn for every entry in insertion order.
func (m *Map) Each(fn func(key, value string)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}
