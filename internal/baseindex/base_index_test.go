// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package baseindex

import "testing"

// TestRoundTrip verifies that for every in-range, canonically masked
// (octet, bits) pair, BaseToPrefix(PrefixToBase(octet, bits)) ==
// (octet, bits).
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for bits := 0; bits <= StrideLen; bits++ {
		mask := HostMask(uint8(bits))
		for octet := 0; octet < 256; octet++ {
			if uint8(octet)&mask != 0 {
				continue // not aligned to bits, PrefixToBase never yields this pair
			}

			idx := PrefixToBase(uint8(octet), uint8(bits))
			gotOctet, gotBits := BaseToPrefix(idx)

			if gotOctet != uint8(octet) || gotBits != uint8(bits) {
				t.Errorf("BaseToPrefix(PrefixToBase(%d, %d)) = (%d, %d), want (%d, %d)",
					octet, bits, gotOctet, gotBits, octet, bits)
			}
		}
	}
}

// TestHostRowConsistency verifies that OctetToBase(o) == PrefixToBase(o,
// 8) for every byte o.
func TestHostRowConsistency(t *testing.T) {
	t.Parallel()

	for o := 0; o < 256; o++ {
		got := OctetToBase(uint8(o))
		want := PrefixToBase(uint8(o), StrideLen)
		if got != want {
			t.Errorf("OctetToBase(%d) = %d, want %d", o, got, want)
		}
	}
}

func TestBaseIndexRange(t *testing.T) {
	t.Parallel()

	for bits := 0; bits <= StrideLen; bits++ {
		for octet := 0; octet < 256; octet++ {
			idx := PrefixToBase(uint8(octet), uint8(bits))
			if idx < 1 || idx > LastHostIndex {
				t.Errorf("PrefixToBase(%d, %d) = %d, out of [1, %d]", octet, bits, idx, LastHostIndex)
			}
		}
	}
}

func TestBaseToPrefixInvalid(t *testing.T) {
	t.Parallel()

	if octet, bits := BaseToPrefix(0); octet != 0 || bits != 0 {
		t.Errorf("BaseToPrefix(0) = (%d, %d), want (0, 0)", octet, bits)
	}
	if octet, bits := BaseToPrefix(LastHostIndex + 1); octet != 0 || bits != 0 {
		t.Errorf("BaseToPrefix(%d) = (%d, %d), want (0, 0)", LastHostIndex+1, octet, bits)
	}
}

func TestLowerUpperHostRow(t *testing.T) {
	t.Parallel()

	// a host route (bits==8) covers exactly itself.
	for o := 0; o < 256; o++ {
		idx := PrefixToBase(uint8(o), StrideLen)
		lower, upper := LowerUpper(idx)
		want := OctetToBase(uint8(o))
		if lower != want || upper != want {
			t.Errorf("LowerUpper(host %d) = (%d, %d), want (%d, %d)", o, lower, upper, want, want)
		}
	}
}

func TestLowerUpperDefaultRoute(t *testing.T) {
	t.Parallel()

	// the default route (idx==1) covers the whole host-route row.
	lower, upper := LowerUpper(1)
	if lower != FirstHostIndex || upper != LastHostIndex {
		t.Errorf("LowerUpper(1) = (%d, %d), want (%d, %d)", lower, upper, FirstHostIndex, LastHostIndex)
	}
}

func TestFirstOctetOfPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		octet uint8
		bits  int
		want  uint8
	}{
		{0b1111_1111, 0, 0b0000_0000},
		{0b1111_1111, 2, 0b1100_0000},
		{0b1010_1010, 4, 0b1010_0000},
		{0b1111_1111, 8, 0b1111_1111},
		{0b1111_1111, 9, 0b1111_1111}, // capped at 8, as if a host route
		{0b1111_1111, -1, 0b0000_0000},
	}
	for _, c := range cases {
		if got := FirstOctetOfPrefix(c.octet, c.bits); got != c.want {
			t.Errorf("FirstOctetOfPrefix(%#08b, %d) = %#08b, want %#08b", c.octet, c.bits, got, c.want)
		}
	}
}

func TestHostMask(t *testing.T) {
	t.Parallel()

	cases := []struct {
		bits uint8
		want uint8
	}{
		{0, 0xFF},
		{1, 0x7F},
		{7, 0x01},
		{8, 0x00},
	}
	for _, c := range cases {
		if got := HostMask(c.bits); got != c.want {
			t.Errorf("HostMask(%d) = %#02x, want %#02x", c.bits, got, c.want)
		}
	}
}
