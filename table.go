// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bart

import (
	"fmt"
	"net/netip"
	"sync"

	"github.com/watfordsuzy/bart.net/internal/baseindex"
)

// Table is an IPv4 and IPv6 longest-prefix-match routing table holding
// a value of type V per stored prefix. The zero value is ready to use.
//
// Table is not safe for concurrent mutation. Concurrent read-only
// access (Contains/Lookup/Overlaps without any concurrent Insert/Delete)
// is safe.
type Table[V any] struct {
	rootV4 *node[V]
	rootV6 *node[V]

	pool4 *pool[V]
	pool6 *pool[V]

	initOnce sync.Once
}

// init lazily allocates the two root nodes and their node pools, so the
// zero value of Table is ready to use without a constructor.
func (t *Table[V]) init() {
	t.initOnce.Do(func() {
		t.rootV4 = newNode[V]()
		t.rootV6 = newNode[V]()
		t.pool4 = newPool[V]()
		t.pool6 = newPool[V]()
	})
}

// rootNodeByVersion selects the root node for the given address family.
func (t *Table[V]) rootNodeByVersion(is4 bool) *node[V] {
	if is4 {
		return t.rootV4
	}
	return t.rootV6
}

// poolByVersion selects the node pool for the given address family.
func (t *Table[V]) poolByVersion(is4 bool) *pool[V] {
	if is4 {
		return t.pool4
	}
	return t.pool6
}

// validateInsert checks pfx against the error kinds Insert must
// synchronously surface: a null/zero address, an IPv4-mapped IPv6
// address (insert rejects these; Lookup silently demaps instead, see
// Table.Lookup), an unsupported family, or an out-of-range prefix
// length.
func validateInsert(pfx netip.Prefix) error {
	addr := pfx.Addr()

	if !addr.IsValid() {
		return ErrNullAddress
	}
	if addr.Is4In6() {
		return ErrMappedAddressOnInsert
	}
	if !addr.Is4() && !addr.Is6() {
		return ErrUnsupportedFamily
	}

	maxBits := 32
	if addr.Is6() {
		maxBits = 128
	}
	if bits := pfx.Bits(); bits < 0 || bits > maxBits {
		return ErrPrefixLengthOutOfRange
	}

	return nil
}

// Insert adds pfx to the table with value val. If pfx is already
// present, its value is overwritten. Returns an error (without
// modifying the table) if pfx fails validation; see the Err* variables
// in errors.go for the error kinds.
func (t *Table[V]) Insert(pfx netip.Prefix, val V) error {
	t.init()

	if err := validateInsert(pfx); err != nil {
		return fmt.Errorf("%w: %s", err, pfx)
	}

	// always normalize the prefix
	pfx = pfx.Masked()

	bits := pfx.Bits()
	addr := pfx.Addr()
	is4 := addr.Is4()

	n := t.rootNodeByVersion(is4)
	p := t.poolByVersion(is4)

	// default route, the CBT's root slot
	if bits == 0 {
		n.insertIdx(1, val)
		return nil
	}

	octets := addr.AsSlice()

	depth := 0
	for {
		octet := octets[depth]

		// last non-masked octet: insert and stop. pfx.Masked() above
		// already zeroed the host bits end to end, but the node layer
		// doesn't get to assume that; canonicalize explicitly.
		if bits <= strideLen {
			n.insertPrefix(baseindex.FirstOctetOfPrefix(octet, bits), bits, val)
			return nil
		}

		child, ok := n.tryGetChild(octet)
		if !ok {
			// no path compression: materialize the missing
			// intermediate stride.
			child = p.get()
			n.insertChild(octet, child)
		}

		n = child
		bits -= strideLen
		depth++
	}
}

// Delete removes the exact prefix pfx from the table, if present, and
// reports whether it was present. Delete never collapses or frees the
// (possibly now-empty) intermediate nodes that were materialized for
// pfx's path: there is no path compression and no garbage collection of
// empty sub-tries, matching Insert's own "no path compression" contract.
func (t *Table[V]) Delete(pfx netip.Prefix) bool {
	t.init()

	pfx = pfx.Masked()
	bits := pfx.Bits()
	addr := pfx.Addr()
	is4 := addr.Is4()

	n := t.rootNodeByVersion(is4)

	if bits == 0 {
		return n.removePrefix(0, 0)
	}

	octets := addr.AsSlice()

	depth := 0
	for {
		octet := octets[depth]

		if bits <= strideLen {
			return n.removePrefix(baseindex.FirstOctetOfPrefix(octet, bits), bits)
		}

		child, ok := n.tryGetChild(octet)
		if !ok {
			return false
		}

		n = child
		bits -= strideLen
		depth++
	}
}

// Contains reports whether any stored prefix covers addr.
func (t *Table[V]) Contains(addr netip.Addr) bool {
	_, ok := t.Lookup(addr)
	return ok
}

// Lookup returns the value of the longest stored prefix covering addr,
// or the zero value and false if no stored prefix covers it.
//
// IPv4-mapped IPv6 addresses are normalized (demapped) to IPv4 before
// the lookup; Insert rejects the corresponding mapped prefixes outright,
// so the same logical prefix is never stored in two places.
func (t *Table[V]) Lookup(addr netip.Addr) (val V, ok bool) {
	t.init()

	if !addr.IsValid() {
		return
	}
	if addr.Is4In6() {
		addr = addr.Unmap()
	}

	is4 := addr.Is4()
	n := t.rootNodeByVersion(is4)

	var pathStack [maxTreeDepth]*node[V]
	octets := addr.AsSlice()

	// descent phase: tight loop down to the deepest materialized node
	// on addr's path.
	depth := 0
	octet := octets[depth]
	for {
		pathStack[depth] = n

		child, hasChild := n.tryGetChild(octet)
		if !hasChild {
			break
		}

		depth++
		octet = octets[depth]
		n = child
	}

	// backtrack phase: unwind the stack, the first LPM hit wins.
	for {
		if n.hasPrefixes() {
			if _, v, found := n.lpmByOctet(octet); found {
				return v, true
			}
		}

		if depth == 0 {
			break
		}

		depth--
		octet = octets[depth]
		n = pathStack[depth]
	}

	return
}

// Overlaps reports whether any address matches both t and other.
func (t *Table[V]) Overlaps(other *Table[V]) bool {
	t.init()
	other.init()

	return t.rootV4.overlaps(other.rootV4) || t.rootV6.overlaps(other.rootV6)
}

// PoolStats returns the live/total node-allocation counters of the v4
// and v6 node pools, for diagnostics. A node is "live" from the moment
// Insert checks it out until an ancestor is discarded by Delete's
// (nonexistent) compaction — in this no-path-compression design that
// means every allocated intermediate node stays live for the table's
// lifetime, so total and live converge to the same number once inserts
// stop.
func (t *Table[V]) PoolStats() (live4, total4, live6, total6 int64) {
	t.init()
	live4, total4 = t.pool4.stats()
	live6, total6 = t.pool6.stats()
	return
}
