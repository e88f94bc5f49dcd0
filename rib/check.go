/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

package rib

import "fmt"

// Check walks the whole tree validating structural invariants — every
// prefix canonical, every glue node structurally required and fully
// two-children, every parent/child link consistent and correctly
// sided, no negative lock counts — plus the reachable-count match
// against t.count. It is meant to be feature-gated behind Table.Debug
// (First already does this automatically); running it unconditionally
// is affordable in development but not in production.
func (t *Table) Check() error {
	remaining := t.count
	if t.top != nil {
		if t.top.parent != nil {
			return fmt.Errorf("rib: top node has a parent")
		}
		var err error
		remaining, err = checkSubtree(t.top, remaining)
		if err != nil {
			return err
		}
	}
	if remaining != 0 {
		return fmt.Errorf("rib: table.count overcounts the reachable tree by %d", remaining)
	}
	return nil
}

func checkSubtree(n *Node, remaining uint64) (uint64, error) {
	if remaining == 0 {
		return 0, fmt.Errorf("rib: more nodes reachable from top than table.count")
	}
	remaining--

	if !n.Prefix.IsCanonical() {
		return remaining, fmt.Errorf("rib: prefix %s is not canonical", n.Prefix)
	}
	if n.isGlue() && !n.hasTwoChildren() {
		return remaining, fmt.Errorf("rib: glue node %s does not have two children", n.Prefix)
	}
	if n.lock < 0 {
		return remaining, fmt.Errorf("rib: node %s has negative lock %d", n.Prefix, n.lock)
	}

	for bit := uint8(0); bit <= 1; bit++ {
		c := n.child(bit)
		if c == nil {
			continue
		}
		if c.parent != n {
			return remaining, fmt.Errorf("rib: child %s does not point back to parent %s", c.Prefix, n.Prefix)
		}
		if !(n.Prefix.Length < c.Prefix.Length) {
			return remaining, fmt.Errorf("rib: child %s prefix length does not exceed parent %s", c.Prefix, n.Prefix)
		}
		if !n.Prefix.Covers(c.Prefix) {
			return remaining, fmt.Errorf("rib: parent %s does not cover child %s", n.Prefix, c.Prefix)
		}
		if c.Prefix.BitAt(n.Prefix.Length) != bit {
			return remaining, fmt.Errorf("rib: child %s is linked on the wrong side of %s", c.Prefix, n.Prefix)
		}

		var err error
		remaining, err = checkSubtree(c, remaining)
		if err != nil {
			return remaining, err
		}
	}
	return remaining, nil
}
