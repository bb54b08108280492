// Package hotel provides a slot allocator that hands out stable, reusable
// integer keys for stored values, and a keyed variant on top of it.
//
// # Hotel
//
// [Hotel] keeps values in a growing slice of slots. [Hotel.Put] returns the
// index of the slot it used; the index stays valid until the value is taken
// out with [Hotel.Take] or [Hotel.Remove].
//
//	h := hotel.New[string]()
//	a := h.Put("a") // 0
//	b := h.Put("b") // 1
//	h.Take(a)
//	h.Take(b)
//	h.Put("c") // 1, last freed is reused first
//	h.Put("d") // 0
//
// Freed slots are reused in LIFO order. This ordering is part of the
// contract. The backing slice only grows.
//
// # Map
//
// [Map] indexes a Hotel by a caller supplied unique key. Inserting an
// existing key overwrites the value in place and keeps its index;
// [Map.TryInsert] refuses instead. Map has no removal operation.
// [Map.Drain] empties the map and forgets every drained key.
//
// # Stale indices
//
// Indices are not versioned. Once a slot is freed its index may be handed
// out again, so a caller holding an old index cannot tell "my value is gone"
// from "this index now holds something else". Callers that keep indices
// around must forget them when they free the slot.
//
// # Concurrency
//
// Hotel and Map are not safe for concurrent use. Guard them with a
// sync.RWMutex: readers (Get, All, Values, Entries) under RLock, everything
// else under Lock. Do not mutate a container while ranging over it, except
// through Drain.
package hotel
