package hotel

import "iter"

// Map stores values in a Hotel and indexes them by a unique key.
type Map[K comparable, V any] struct {
	hotel Hotel[V]
	index map[K]int
	keys  []K // key owning each slot, parallel to hotel.floor
}

// Entry is one key of a Map together with its slot.
type Entry[K comparable, V any] struct {
	Key   K
	Index int
	Value V
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		index: map[K]int{},
	}
}

func NewMapWithCapacity[K comparable, V any](capacity int) *Map[K, V] {
	capacity = max(capacity, 0)
	return &Map[K, V]{
		hotel: Hotel[V]{floor: make([]slot[V], 0, capacity)},
		index: make(map[K]int, capacity),
		keys:  make([]K, 0, capacity),
	}
}

// GetByKey returns the slot index and value stored under key.
func (m *Map[K, V]) GetByKey(key K) (int, V, bool) {
	index, exists := m.index[key]
	if !exists {
		var zero V
		return 0, zero, false
	}
	value, ok := m.hotel.Get(index)
	if !ok {
		var zero V
		return 0, zero, false
	}
	return index, value, true
}

func (m *Map[K, V]) GetByIndex(index int) (V, bool) {
	return m.hotel.Get(index)
}

func (m *Map[K, V]) Contains(key K) bool {
	_, exists := m.index[key]
	return exists
}

// Insert stores value under key and returns its slot index. An existing key
// keeps its slot and gets its value overwritten.
func (m *Map[K, V]) Insert(key K, value V) int {
	if index, exists := m.index[key]; exists {
		m.hotel.replace(index, value)
		return index
	}
	return m.put(key, value)
}

// TryInsert stores value under key only if key is not present yet. When it
// is, nothing changes and the existing slot index is returned with false.
func (m *Map[K, V]) TryInsert(key K, value V) (int, bool) {
	if index, exists := m.index[key]; exists {
		return index, false
	}
	return m.put(key, value), true
}

func (m *Map[K, V]) put(key K, value V) int {
	index := m.hotel.Put(value)

	if m.index == nil {
		m.index = map[K]int{}
	}
	m.index[key] = index

	for len(m.keys) <= index {
		var zero K
		m.keys = append(m.keys, zero)
	}
	m.keys[index] = key

	return index
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int {
	return len(m.index)
}

// Floor returns the number of slots of the underlying Hotel.
func (m *Map[K, V]) Floor() int {
	return m.hotel.Floor()
}

// All yields slot index and value in ascending index order.
func (m *Map[K, V]) All() iter.Seq2[int, V] {
	return m.hotel.All()
}

// Entries yields one Entry per key. Keys are kept next to their slots, so
// the order is ascending slot index.
func (m *Map[K, V]) Entries() iter.Seq[Entry[K, V]] {
	return func(yield func(Entry[K, V]) bool) {
		for index, value := range m.hotel.All() {
			entry := Entry[K, V]{
				Key:   m.keys[index],
				Index: index,
				Value: value,
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// Drain takes every value out in ascending index order and forgets its key.
// Keys of slots not reached because the caller stopped early stay valid.
func (m *Map[K, V]) Drain() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for index, value := range m.hotel.Drain() {
			var zero K
			delete(m.index, m.keys[index])
			m.keys[index] = zero
			if !yield(index, value) {
				return
			}
		}
	}
}
