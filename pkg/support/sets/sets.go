// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sets implement a set type as a `map[T]struct{}` but with better ergonomics.
package sets

// Set implements a Set for the key type T.
type Set[T comparable] map[T]struct{}

// Make returns an empty Set with room for size elements.
func Make[T comparable](size int) Set[T] {
	return make(Set[T], size)
}

// Has returns true if Set s has the given key.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert key into the set. It returns false if key was already in the set.
func (s Set[T]) Insert(key T) (inserted bool) {
	if s.Has(key) {
		return false
	}
	s[key] = struct{}{}
	return true
}
