package utils

import (
	"cmp"
	"maps"
	"slices"
)

// GetKeys returns the keys of m in ascending order.
func GetKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
