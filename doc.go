// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bart provides a Balanced Adaptive Routing Table (BART): an
// in-memory longest-prefix-match structure over IPv4 and IPv6 CIDR
// prefixes.
//
// BART trades a small constant factor in lookup latency against a
// fixed-array ART implementation for an order-of-magnitude reduction in
// memory, by popcount-compressing both the prefix and child arrays at
// every trie level instead of pre-allocating them at full width.
//
// There is no path compression: every intermediate 8-bit stride of an
// inserted prefix's address is materialized as its own node, even when
// that node stores nothing by itself. This keeps insert, delete and the
// longest-prefix-match backtracking simple, at the cost of some memory
// for sparse trees.
//
// Table is the central exported type; see its method docs for the API
// (Insert, Delete, Contains, Lookup, Overlaps, plus the Fprint, String,
// Stats and PoolStats diagnostics). Stats is the snapshot type returned
// by Table.Stats.
package bart
