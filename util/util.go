package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func GetKeys[A comparable, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Contains[A comparable](items []A, item A) bool {
	for _, v := range items {
		if v == item {
			return true
		}
	}
	return false
}
