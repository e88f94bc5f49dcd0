/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

// Command ribtool builds a routing table from a JSON config, prints
// its trie shape, and runs any configured lookups against it. It is
// the successor to docs/demo/allowedips's tree-visualization demo,
// rebuilt on the public rib API instead of reaching past the package
// boundary with unsafe pointer casts.
package main

import (
	"flag"
	"fmt"
	"net/netip"
	"os"

	"github.com/rs/zerolog"

	"github.com/packetflux/bgprib/rib"
)

func main() {
	path := flag.String("config", "", "path to a ribtool JSON config file")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: ribtool -config <file.json>")
		os.Exit(2)
	}

	cfg, err := LoadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tbl, err := buildTable(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rib.ReleaseAllPools()
	defer tbl.Unlock()

	fmt.Printf("=== %s/%s table, %d route(s) ===\n", cfg.AFI, cfg.SAFI, tbl.Count())
	if root := tbl.First(); root != nil {
		printTree(root, "", true)
		root.Unlock()
	} else {
		fmt.Println("(empty tree)")
	}

	for _, addr := range cfg.Lookups {
		runLookup(tbl, cfg.AFI, addr)
	}
}

func buildTable(cfg *Config) (*rib.Table, error) {
	afi, err := parseAFI(cfg.AFI)
	if err != nil {
		return nil, err
	}
	safi, err := parseSAFI(cfg.SAFI)
	if err != nil {
		return nil, err
	}

	tbl := rib.NewTable(afi, safi)
	tbl.Debug = cfg.Debug
	if cfg.Debug {
		tbl.WithLogger(rib.NewLogger(zerolog.DebugLevel))
	}

	for _, r := range cfg.Routes {
		netipPrefix, err := netip.ParsePrefix(r.Prefix)
		if err != nil {
			return nil, fmt.Errorf("ribtool: route %q: %w", r.Prefix, err)
		}
		p, err := rib.PrefixFromNetip(netipPrefix)
		if err != nil {
			return nil, fmt.Errorf("ribtool: route %q: %w", r.Prefix, err)
		}
		node := tbl.Get(p, nil)
		node.Info = r.Info
	}

	return tbl, nil
}

func parseAFI(s string) (rib.AFI, error) {
	switch s {
	case "ipv4", "":
		return rib.AFIIPv4, nil
	case "ipv6":
		return rib.AFIIPv6, nil
	default:
		return 0, fmt.Errorf("ribtool: unknown afi %q", s)
	}
}

func parseSAFI(s string) (rib.SAFI, error) {
	switch s {
	case "unicast", "":
		return rib.SAFIUnicast, nil
	case "multicast":
		return rib.SAFIMulticast, nil
	case "mpls-vpn":
		return rib.SAFIMplsVPN, nil
	default:
		return 0, fmt.Errorf("ribtool: unknown safi %q", s)
	}
}

func runLookup(tbl *rib.Table, afi, addr string) {
	a, err := netip.ParseAddr(addr)
	if err != nil {
		fmt.Printf("lookup %s: %v\n", addr, err)
		return
	}

	var (
		node    *rib.Node
		lookErr error
	)
	if afi == "ipv6" {
		node, lookErr = tbl.MatchIPv6(a)
	} else {
		node, lookErr = tbl.MatchIPv4(a)
	}
	if lookErr != nil {
		fmt.Printf("lookup %s: %v\n", addr, lookErr)
		return
	}
	if node == nil {
		fmt.Printf("lookup %s: no match\n", addr)
		return
	}
	fmt.Printf("lookup %s: matched %s info=%v\n", addr, node.Prefix, node.Info)
	node.Unlock()
}

// printTree walks the trie pre-order through the read-only
// Left()/Right() accessors, the same shape docs/demo/allowedips's
// printMockTree walked over a reflected private struct — but here the
// struct is the real, exported rib.Node.
func printTree(node *rib.Node, prefix string, isLeft bool) {
	if node == nil {
		return
	}
	label, branch := "0", "├── "
	if !isLeft {
		label, branch = "1", "└── "
	}
	state := "glue"
	if node.Info != nil {
		state = fmt.Sprintf("info=%v", node.Info)
	}
	fmt.Printf("%s%s%s: [%s] (%s)\n", prefix, branch, label, node.Prefix, state)

	childPrefix := prefix
	if isLeft {
		childPrefix += "│   "
	} else {
		childPrefix += "    "
	}
	printTree(node.Left(), childPrefix, true)
	printTree(node.Right(), childPrefix, false)
}
