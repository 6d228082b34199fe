// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bart

import "errors"

// Sentinel errors returned synchronously by Table operations. None of
// them are recovered internally; Lookup/Contains/Overlaps never return
// an error, "not found" is an ordinary zero-value/false result for them.
var (
	// ErrNullAddress is returned when the caller passed the zero-value
	// (invalid) address or prefix.
	ErrNullAddress = errors.New("bart: address is invalid (zero value)")

	// ErrUnsupportedFamily is returned when an address is neither IPv4
	// nor IPv6 (i.e. invalid).
	ErrUnsupportedFamily = errors.New("bart: address family is neither IPv4 nor IPv6")

	// ErrPrefixLengthOutOfRange is returned when a prefix length is
	// negative or exceeds the address family's bit width.
	ErrPrefixLengthOutOfRange = errors.New("bart: prefix length out of range")

	// ErrMappedAddressOnInsert is returned when Insert is called with
	// an IPv4-mapped IPv6 prefix. Lookup silently demaps instead; the
	// asymmetry is intentional, see Table.Lookup.
	ErrMappedAddressOnInsert = errors.New("bart: IPv4-mapped IPv6 prefix rejected on insert")
)
