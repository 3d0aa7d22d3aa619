package store

import "slices"

// appendItem returns a new slice with v appended and the index of v.
// The input slice is never written to.
func appendItem[T any](s []T, v T) ([]T, int) {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	out = append(out, v)
	return out, len(out) - 1
}

// updateItem returns a new slice with the element at i replaced by fn(s[i]).
// Out-of-range indices return the input unchanged and ok=false.
func updateItem[T any](s []T, i int, fn func(T) T) ([]T, bool) {
	if i < 0 || i >= len(s) {
		return s, false
	}
	out := slices.Clone(s)
	out[i] = fn(out[i])
	return out, true
}

// removeItem returns a new slice without the element at i, keeping the order
// of the rest. Out-of-range indices return the input unchanged and ok=false.
func removeItem[T any](s []T, i int) ([]T, bool) {
	if i < 0 || i >= len(s) {
		return s, false
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out, true
}
