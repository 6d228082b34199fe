// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bart_test

import (
	"fmt"
	"net/netip"

	"github.com/watfordsuzy/bart.net"
)

func ExampleTable_Lookup() {
	rtbl := new(bart.Table[string])

	routes := []struct {
		cidr    string
		nextHop string
	}{
		{"10.0.0.0/8", "router-a"},
		{"10.0.1.0/24", "router-b"},
		{"192.168.0.0/16", "router-c"},
	}
	for _, r := range routes {
		if err := rtbl.Insert(netip.MustParsePrefix(r.cidr), r.nextHop); err != nil {
			panic(err)
		}
	}

	for _, addr := range []string{"10.0.1.5", "10.0.2.5", "8.8.8.8"} {
		val, ok := rtbl.Lookup(netip.MustParseAddr(addr))
		fmt.Printf("%-10s -> %q, %v\n", addr, val, ok)
	}

	// Output:
	// 10.0.1.5   -> "router-b", true
	// 10.0.2.5   -> "router-a", true
	// 8.8.8.8    -> "", false
}

func ExampleTable_Overlaps() {
	a := new(bart.Table[int])
	b := new(bart.Table[int])

	if err := a.Insert(netip.MustParsePrefix("10.0.0.0/8"), 1); err != nil {
		panic(err)
	}
	if err := b.Insert(netip.MustParsePrefix("10.0.1.0/24"), 2); err != nil {
		panic(err)
	}

	fmt.Println(a.Overlaps(b))

	// Output:
	// true
}
