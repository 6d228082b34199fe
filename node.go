// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bart

import (
	"slices"

	"github.com/watfordsuzy/bart.net/internal/baseindex"
	"github.com/watfordsuzy/bart.net/internal/bitset"
)

const (
	strideLen       = baseindex.StrideLen  // 8, one octet
	maxTreeDepth    = 128 / strideLen       // 16
	maxNodeChildren = 1 << strideLen        // 256
	maxNodePrefixes = 1 << (strideLen + 1)  // 512

	firstHostIndex = baseindex.FirstHostIndex // 256
	lastHostIndex  = baseindex.LastHostIndex  // 511
)

// node is one level of the multibit trie. It owns a prefix complete
// binary tree (CBT) of up to 511 slots and a child array of up to 256
// slots, both represented as a bitset paired with a popcount-compressed
// slice so that only the slots actually in use consume memory.
//
// There is no path compression: an intermediate stride is always
// materialized as its own node, even if it stores nothing itself yet.
// This keeps insert/remove/LPM simple at the cost of some memory, and is
// an intentional trade-off that must not be undone.
type node[V any] struct {
	prefixesBitset *bitset.Set
	childrenBitset *bitset.Set

	// popcount compressed slices, kept in lockstep with the bitsets
	// above: len(prefixes) == prefixesBitset.Popcount(), and likewise
	// for children.
	prefixes []V
	children []*node[V]
}

// newNode returns an empty, ready-to-use node.
func newNode[V any]() *node[V] {
	return &node[V]{
		prefixesBitset: bitset.New(0),
		childrenBitset: bitset.New(0),
	}
}

// reset clears a node's contents but keeps the backing slice/bitset
// capacity, so it can be recycled by the node pool without reallocating.
func (n *node[V]) reset() {
	n.prefixesBitset.ClearAll()
	n.childrenBitset.ClearAll()
	n.prefixes = n.prefixes[:0]
	n.children = n.children[:0]
}

// isEmpty reports whether the node has neither prefixes nor children.
func (n *node[V]) isEmpty() bool {
	return len(n.prefixes) == 0 && len(n.children) == 0
}

func (n *node[V]) hasPrefixes() bool {
	return len(n.prefixes) > 0
}

func (n *node[V]) hasChildren() bool {
	return len(n.children) > 0
}

// ################## prefixes ################################

// prefixRank maps a baseIndex to its slice index via Rank-1, the core
// trick of popcount compression.
func (n *node[V]) prefixRank(baseIdx uint) int {
	return int(n.prefixesBitset.Rank(baseIdx)) - 1
}

// insertPrefix adds the route (octet, prefixLen) with value val. An
// already present prefix is overwritten.
func (n *node[V]) insertPrefix(octet uint8, prefixLen int, val V) {
	n.insertIdx(baseindex.PrefixToBase(octet, uint8(prefixLen)), val)
}

// insertIdx adds the route for baseIdx with value val.
func (n *node[V]) insertIdx(baseIdx uint, val V) {
	// prefix exists, overwrite val in place, bitset/slice untouched.
	if n.prefixesBitset.Contains(baseIdx) {
		n.prefixes[n.prefixRank(baseIdx)] = val
		return
	}

	// new: set the bit first, then compute the insert position from
	// the now-updated rank, then grow the slice. This ordering keeps
	// len(prefixes) == popcount(prefixesBitset) true at every
	// externally observable point.
	n.prefixesBitset.Set(baseIdx)
	n.prefixes = slices.Insert(n.prefixes, n.prefixRank(baseIdx), val)
}

// removePrefix removes the route (octet, prefixLen). Reports whether the
// prefix was present prior to removal.
func (n *node[V]) removePrefix(octet uint8, prefixLen int) (wasPresent bool) {
	baseIdx := baseindex.PrefixToBase(octet, uint8(prefixLen))

	if !n.prefixesBitset.Contains(baseIdx) {
		return false
	}

	// compute the slice position before clearing the bit: Rank is
	// only meaningful while the bit is still set.
	rnk := n.prefixRank(baseIdx)
	n.prefixes = slices.Delete(n.prefixes, rnk, rnk+1)
	n.prefixesBitset.Clear(baseIdx)

	return true
}

// updatePrefix is the upsert primitive: it invokes addFn on a prior-absent
// prefix and updateFn(old) on a prior-present one, returning the value
// that ends up stored.
func (n *node[V]) updatePrefix(octet uint8, prefixLen int, addFn func() V, updateFn func(V) V) (val V) {
	baseIdx := baseindex.PrefixToBase(octet, uint8(prefixLen))

	if n.prefixesBitset.Contains(baseIdx) {
		rnk := n.prefixRank(baseIdx)
		val = updateFn(n.prefixes[rnk])
		n.prefixes[rnk] = val
		return
	}

	val = addFn()
	n.prefixesBitset.Set(baseIdx)
	n.prefixes = slices.Insert(n.prefixes, n.prefixRank(baseIdx), val)
	return
}

// lpmByIndex walks idx towards the root of this stride's CBT, a
// bit-shift per step, and returns the first (most specific) matching
// baseIndex/value, or ok=false if nothing in this node covers idx.
func (n *node[V]) lpmByIndex(idx uint) (baseIdx uint, val V, ok bool) {
	for {
		if n.prefixesBitset.Contains(idx) {
			return idx, n.prefixes[n.prefixRank(idx)], true
		}
		if idx == 0 {
			return 0, val, false
		}
		idx >>= 1
	}
}

// lpmByOctet is an adapter to lpmByIndex starting from the host-route row.
func (n *node[V]) lpmByOctet(octet uint8) (baseIdx uint, val V, ok bool) {
	return n.lpmByIndex(baseindex.OctetToBase(octet))
}

// lpmByPrefix is an adapter to lpmByIndex for an in-stride prefix query.
func (n *node[V]) lpmByPrefix(octet uint8, bits int) (baseIdx uint, val V, ok bool) {
	return n.lpmByIndex(baseindex.PrefixToBase(octet, uint8(bits)))
}

// getValByIndex returns the value stored at baseIdx, if any.
func (n *node[V]) getValByIndex(baseIdx uint) (val V, ok bool) {
	if n.prefixesBitset.Contains(baseIdx) {
		return n.prefixes[n.prefixRank(baseIdx)], true
	}
	return
}

// overlapsPrefix reports whether any prefix stored in this node overlaps
// the query prefix (octet, pfxLen). Three short-circuiting tests, in
// order: query covered by a stored prefix, query covers a stored
// prefix, query covers a child.
func (n *node[V]) overlapsPrefix(octet uint8, pfxLen int) bool {
	// 1. is the query covered by a stored (less specific or equal) prefix?
	pfxIdx := baseindex.PrefixToBase(octet, uint8(pfxLen))
	if _, _, ok := n.lpmByIndex(pfxIdx); ok {
		return true
	}

	// 2. does the query cover a stored (more specific) prefix?
	pfxLower, pfxUpper := baseindex.LowerUpper(pfxIdx)

	// start at pfxIdx's first child in the CBT; lpmByIndex above already
	// tested pfxIdx itself.
	routeIdx := pfxIdx << 1
	for {
		var ok bool
		routeIdx, ok = n.prefixesBitset.NextSet(routeIdx)
		if !ok {
			break
		}

		routeLower, routeUpper := baseindex.LowerUpper(routeIdx)
		if routeLower >= pfxLower && routeUpper <= pfxUpper {
			return true
		}

		routeIdx++
	}

	// 3. does the query cover a child node?
	childOctet := uint(octet)
	for {
		var ok bool
		childOctet, ok = n.childrenBitset.NextSet(childOctet)
		if !ok {
			break
		}

		childIdx := childOctet + firstHostIndex
		if childIdx >= pfxLower && childIdx <= pfxUpper {
			return true
		}

		childOctet++
	}

	return false
}

// ################## children ################################

// childRank maps an octet to its slice index via Rank-1.
func (n *node[V]) childRank(octet uint8) int {
	return int(n.childrenBitset.Rank(uint(octet))) - 1
}

// insertChild inserts or overwrites the child at octet.
func (n *node[V]) insertChild(octet uint8, child *node[V]) {
	if n.childrenBitset.Contains(uint(octet)) {
		n.children[n.childRank(octet)] = child
		return
	}

	n.childrenBitset.Set(uint(octet))
	n.children = slices.Insert(n.children, n.childRank(octet), child)
}

// removeChild removes the child at octet, if any, and reports whether it
// was present.
func (n *node[V]) removeChild(octet uint8) (wasPresent bool) {
	if !n.childrenBitset.Contains(uint(octet)) {
		return false
	}

	rnk := n.childRank(octet)
	n.children = slices.Delete(n.children, rnk, rnk+1)
	n.childrenBitset.Clear(uint(octet))

	return true
}

// tryGetChild returns the child at octet, if any.
func (n *node[V]) tryGetChild(octet uint8) (*node[V], bool) {
	if !n.childrenBitset.Contains(uint(octet)) {
		return nil, false
	}
	return n.children[n.childRank(octet)], true
}
