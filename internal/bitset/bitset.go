// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bitset adapts github.com/bits-and-blooms/bitset to the handful
// of operations the trie node needs: membership test, set, try-set,
// clear, rank and next-set-bit scanning, all backed by dense 64-bit
// words so that popcount compression stays cache friendly.
package bitset

import "github.com/bits-and-blooms/bitset"

// Set is a growable bitvector of unsigned integers. The zero value is an
// empty set ready to use; Set grows its backing words on demand.
type Set struct {
	bitset.BitSet
}

// New returns an empty Set with room for at least length bits
// preallocated.
func New(length uint) *Set {
	bs := bitset.New(length)
	return &Set{BitSet: *bs}
}

// Contains reports whether bit i is set. Out-of-range i reports false.
func (s *Set) Contains(i uint) bool {
	return s.Test(i)
}

// TrySet sets bit i and reports whether it was previously clear.
func (s *Set) TrySet(i uint) bool {
	if s.Test(i) {
		return false
	}
	s.Set(i)
	return true
}

// IsEmpty reports whether no bit is set.
func (s *Set) IsEmpty() bool {
	return s.None()
}

// Popcount returns the number of set bits.
func (s *Set) Popcount() uint {
	return s.Count()
}
