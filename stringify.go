// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bart

import (
	"cmp"
	"fmt"
	"io"
	"net/netip"
	"slices"
	"strings"

	"github.com/watfordsuzy/bart.net/internal/baseindex"
)

// dumpEntry is one stored route, reconstructed with its full CIDR while
// walking the trie.
type dumpEntry[V any] struct {
	cidr netip.Prefix
	val  V
}

// dumpNode is one node of the hierarchical (supernet/subnet) tree built
// from a flat, address-sorted list of dumpEntry for String/Fprint. It is
// a debugging aid only, not a serialization format: nothing parses it
// back into a Table.
type dumpNode[V any] struct {
	cidr    netip.Prefix
	val     V
	subnets []*dumpNode[V]
}

// collect appends every route stored at or below n to out, in the
// depth-first order the trie stores them, reconstructing each full CIDR
// from path (the octets walked so far), depth and the stored baseIndex.
func (n *node[V]) collect(path []byte, depth int, is4 bool, out *[]dumpEntry[V]) {
	for idx, ok := n.prefixesBitset.NextSet(0); ok; idx, ok = n.prefixesBitset.NextSet(idx + 1) {
		octet, bits := baseindex.BaseToPrefix(idx)

		full := slices.Clone(path)
		full[depth] = octet

		var addr netip.Addr
		if is4 {
			addr = netip.AddrFrom4([4]byte(full))
		} else {
			addr = netip.AddrFrom16([16]byte(full))
		}

		cidr := netip.PrefixFrom(addr, depth*strideLen+int(bits)).Masked()
		*out = append(*out, dumpEntry[V]{cidr: cidr, val: n.prefixes[n.prefixRank(idx)]})
	}

	for octet, ok := n.childrenBitset.NextSet(0); ok; octet, ok = n.childrenBitset.NextSet(octet + 1) {
		child, _ := n.tryGetChild(uint8(octet))
		path[depth] = uint8(octet)
		child.collect(path, depth+1, is4, out)
	}
}

// allSorted returns every stored route in both address families,
// ascending by address and then by prefix length (supernets before
// their subnets).
func (t *Table[V]) allSorted() []dumpEntry[V] {
	var out []dumpEntry[V]

	t.rootV4.collect(make([]byte, 4), 0, true, &out)
	t.rootV6.collect(make([]byte, 16), 0, false, &out)

	slices.SortFunc(out, func(a, b dumpEntry[V]) int {
		if c := a.cidr.Addr().Compare(b.cidr.Addr()); c != 0 {
			return c
		}
		return cmp.Compare(a.cidr.Bits(), b.cidr.Bits())
	})

	return out
}

// buildDumpTree nests a flat, allSorted-ordered entry list into
// supernet/subnet trees, one root per top-level (non-nested) prefix.
func buildDumpTree[V any](entries []dumpEntry[V]) []*dumpNode[V] {
	var roots []*dumpNode[V]
	var stack []*dumpNode[V]

	for _, e := range entries {
		dn := &dumpNode[V]{cidr: e.cidr, val: e.val}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.cidr.Bits() < dn.cidr.Bits() && top.cidr.Overlaps(dn.cidr) {
				break
			}
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, dn)
		} else {
			top := stack[len(stack)-1]
			top.subnets = append(top.subnets, dn)
		}

		stack = append(stack, dn)
	}

	return roots
}

// Fprint writes a hierarchical tree diagram of the ordered CIDRs with
// their payload V to w, for debugging. It is not a wire format: nothing
// in this package reads it back.
func (t *Table[V]) Fprint(w io.Writer) error {
	t.init()

	roots := buildDumpTree(t.allSorted())
	if len(roots) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "▼"); err != nil {
		return err
	}

	for i, r := range roots {
		if err := fprintRec(w, r, "", i == len(roots)-1); err != nil {
			return err
		}
	}

	return nil
}

func fprintRec[V any](w io.Writer, n *dumpNode[V], prefix string, last bool) error {
	branch := "├─ "
	cont := "│  "
	if last {
		branch = "└─ "
		cont = "   "
	}

	if _, err := fmt.Fprintf(w, "%s%s%s (%v)\n", prefix, branch, n.cidr, n.val); err != nil {
		return err
	}

	for i, sub := range n.subnets {
		if err := fprintRec(w, sub, prefix+cont, i == len(n.subnets)-1); err != nil {
			return err
		}
	}

	return nil
}

// String returns Fprint's output, or a message describing the failure
// if writing to the in-memory buffer somehow errors.
func (t *Table[V]) String() string {
	w := new(strings.Builder)
	if err := t.Fprint(w); err != nil {
		return fmt.Sprintf("bart: Fprint: %v", err)
	}
	return w.String()
}

// Stats is a snapshot of a Table's trie shape, for diagnostics.
type Stats struct {
	Prefixes int // number of stored routes
	Children int // number of (octet -> node) edges
	Nodes    int // number of materialized trie nodes, including the v4 and v6 roots
}

// Stats walks both address families and returns their combined trie
// shape. Unlike PoolStats (allocator-level, lifetime counters), Stats
// reflects the table's current contents.
func (t *Table[V]) Stats() Stats {
	t.init()

	s4 := t.rootV4.statsRec()
	s6 := t.rootV6.statsRec()

	return Stats{
		Prefixes: s4.pfxs + s6.pfxs,
		Children: s4.childs + s6.childs,
		Nodes:    s4.nodes + s6.nodes,
	}
}

// nodeStats holds the counts of a node together with all its
// descendants, as accumulated by statsRec.
type nodeStats struct {
	pfxs   int
	childs int
	nodes  int
}

// statsRec accumulates n's own counts plus every descendant's, recursively.
func (n *node[V]) statsRec() nodeStats {
	s := nodeStats{
		pfxs:   len(n.prefixes),
		childs: len(n.children),
		nodes:  1,
	}

	for _, child := range n.children {
		rs := child.statsRec()
		s.pfxs += rs.pfxs
		s.childs += rs.childs
		s.nodes += rs.nodes
	}

	return s
}
