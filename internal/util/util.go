package util

import (
	"slices"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// MapsKeysSorted returns the keys of m in ascending order.
func MapsKeysSorted[M ~map[K]V, K constraints.Ordered, V any](m M) []K {
	if m == nil {
		return nil
	}
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
