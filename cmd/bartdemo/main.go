// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command bartdemo is a thin external collaborator that exercises the
// bart.Table API end to end: it is not part of the core's contract (see
// package bart's docs), only a runnable smoke test for it.
//
// It reads a route table from stdin, one "CIDR NEXTHOP" pair per line,
// then reads query addresses from the remaining lines and prints the
// longest-prefix-match result for each.
package main

import (
	"bufio"
	"fmt"
	"log"
	"net/netip"
	"os"
	"strings"

	"github.com/watfordsuzy/bart.net"
)

func main() {
	tbl := new(bart.Table[string])

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)

		if len(fields) == 2 {
			pfx, err := netip.ParsePrefix(fields[0])
			if err != nil {
				log.Printf("skipping route line %q: %v", line, err)
				continue
			}

			if err := tbl.Insert(pfx, fields[1]); err != nil {
				log.Printf("skipping route line %q: %v", line, err)
			}
			continue
		}

		addr, err := netip.ParseAddr(fields[0])
		if err != nil {
			log.Printf("skipping query line %q: %v", line, err)
			continue
		}

		if val, ok := tbl.Lookup(addr); ok {
			fmt.Printf("%-39s -> %s\n", addr, val)
		} else {
			fmt.Printf("%-39s -> (no match)\n", addr)
		}
	}

	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
}
