package hotel

import (
	"fmt"
	"iter"
)

// Hotel stores values in slots and hands out their slot index as a key.
//
// Freed slots are kept in a stack and reused last-freed-first before the
// floor grows. The floor never shrinks.
type Hotel[T any] struct {
	floor []slot[T]
	holes []int // free slots (stack)
}

type slot[T any] struct {
	state slotState
	value T
}

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
)

func New[T any]() *Hotel[T] {
	return &Hotel[T]{}
}

// WithCapacity reserves room for capacity slots. It has no other effect.
func WithCapacity[T any](capacity int) *Hotel[T] {
	return &Hotel[T]{
		floor: make([]slot[T], 0, max(capacity, 0)),
	}
}

// Put stores value and returns its index.
func (h *Hotel[T]) Put(value T) int {
	var index int

	if n := len(h.holes); n > 0 {
		index = h.holes[n-1]
		h.holes = h.holes[:n-1]
	} else {
		index = len(h.floor)
		h.floor = append(h.floor, slot[T]{})
	}

	h.floor[index] = slot[T]{
		state: slotOccupied,
		value: value,
	}
	return index
}

func (h *Hotel[T]) Get(index int) (T, bool) {
	if !h.occupied(index) {
		var zero T
		return zero, false
	}
	return h.floor[index].value, true
}

// Take removes the value at index and returns it. It returns false when the
// index was never issued or is already free.
func (h *Hotel[T]) Take(index int) (T, bool) {
	if !h.occupied(index) {
		var zero T
		return zero, false
	}

	value := h.floor[index].value
	h.floor[index] = slot[T]{state: slotEmpty}
	h.holes = append(h.holes, index)

	return value, true
}

// Remove is Take with an error instead of a boolean.
func (h *Hotel[T]) Remove(index int) (T, error) {
	value, ok := h.Take(index)
	if !ok {
		return value, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	return value, nil
}

// Len returns the number of occupied slots.
func (h *Hotel[T]) Len() int {
	return len(h.floor) - len(h.holes)
}

// Floor returns the number of slots ever allocated, free or not.
func (h *Hotel[T]) Floor() int {
	return len(h.floor)
}

// Holes returns the number of free slots waiting to be reused.
func (h *Hotel[T]) Holes() int {
	return len(h.holes)
}

// All yields index and value of every occupied slot in ascending index order.
func (h *Hotel[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range h.floor {
			if h.floor[i].state != slotOccupied {
				continue
			}
			if !yield(i, h.floor[i].value) {
				return
			}
		}
	}
}

// Values yields the value of every occupied slot in ascending index order.
func (h *Hotel[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range h.All() {
			if !yield(value) {
				return
			}
		}
	}
}

// Drain takes every occupied slot in ascending index order, handing each
// value to the caller as it goes. Slots not reached because the caller
// stopped early keep their values.
func (h *Hotel[T]) Drain() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range h.floor {
			value, ok := h.Take(i)
			if !ok {
				continue
			}
			if !yield(i, value) {
				return
			}
		}
	}
}

// replace overwrites an occupied slot in place.
func (h *Hotel[T]) replace(index int, value T) bool {
	if !h.occupied(index) {
		return false
	}
	h.floor[index].value = value
	return true
}

func (h *Hotel[T]) occupied(index int) bool {
	return index >= 0 && index < len(h.floor) && h.floor[index].state == slotOccupied
}
