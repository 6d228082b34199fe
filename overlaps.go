// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bart

import "github.com/watfordsuzy/bart.net/internal/baseindex"

// overlaps reports whether any address covered by n overlaps an address
// covered by o. Three phases: route-vs-route, route-vs-child, then
// recursive child-vs-child for octets common to both nodes.
//
// Phases 1 and 2 use "allotment" bitsets: for every prefix stored in a
// node, the host-route indices [256..511] it covers are marked in that
// side's own allotment bitset. Two allotments sharing a marked host
// route is exactly the condition for those two prefixes to overlap.
func (n *node[V]) overlaps(o *node[V]) bool {
	var nAllot, oAllot [maxNodePrefixes]bool

	nPfxExists := n.hasPrefixes()
	oPfxExists := o.hasPrefixes()
	var nIdx, oIdx uint

	// 1. route vs route, zig-zag over both prefix bitsets.
	for nPfxExists || oPfxExists {
		if nPfxExists {
			if nIdx, nPfxExists = n.prefixesBitset.NextSet(nIdx); nPfxExists {
				lower, upper := baseindex.LowerUpper(nIdx)
				for i := lower; i <= upper; i++ {
					if oAllot[i] {
						return true
					}
					nAllot[i] = true
				}
				nIdx++
			}
		}

		if oPfxExists {
			if oIdx, oPfxExists = o.prefixesBitset.NextSet(oIdx); oPfxExists {
				lower, upper := baseindex.LowerUpper(oIdx)
				for i := lower; i <= upper; i++ {
					if nAllot[i] {
						return true
					}
					oAllot[i] = true
				}
				oIdx++
			}
		}
	}

	// final pass: catch cells both sides set in the same round without
	// having seen the other side's mark yet.
	if n.hasPrefixes() && o.hasPrefixes() {
		for i := firstHostIndex; i <= lastHostIndex; i++ {
			if nAllot[i] && oAllot[i] {
				return true
			}
		}
	}

	// 2. route vs child, zig-zag over both child bitsets.
	var nOctets, oOctets [maxNodeChildren]bool

	ncExists := n.hasChildren()
	ocExists := o.hasChildren()
	var nOctet, oOctet uint

	for ncExists || ocExists {
		if ncExists {
			if nOctet, ncExists = n.childrenBitset.NextSet(nOctet); ncExists {
				if oAllot[nOctet+firstHostIndex] {
					return true
				}
				nOctets[nOctet] = true
				nOctet++
			}
		}

		if ocExists {
			if oOctet, ocExists = o.childrenBitset.NextSet(oOctet); ocExists {
				if nAllot[oOctet+firstHostIndex] {
					return true
				}
				oOctets[oOctet] = true
				oOctet++
			}
		}
	}

	// 3. child vs child: recurse for octets present on both sides.
	if n.hasChildren() && o.hasChildren() {
		for octet := range nOctets {
			if !nOctets[octet] || !oOctets[octet] {
				continue
			}

			nc, _ := n.tryGetChild(uint8(octet))
			oc, _ := o.tryGetChild(uint8(octet))

			if nc.overlaps(oc) {
				return true
			}
		}
	}

	return false
}
