/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

package rib

import (
	"fmt"
	"net/netip"
)

// MatchIPv4 builds a /32 host prefix from addr and calls Match.
func (t *Table) MatchIPv4(addr netip.Addr) (*Node, error) {
	if !addr.Is4() && !addr.Is4In6() {
		return nil, fmt.Errorf("rib: %v is not an IPv4 address", addr)
	}
	p, err := HostPrefix(addr.Unmap())
	if err != nil {
		return nil, err
	}
	return t.Match(p), nil
}

// MatchIPv6 builds a /128 host prefix from addr and calls Match.
func (t *Table) MatchIPv6(addr netip.Addr) (*Node, error) {
	if !addr.Is6() || addr.Is4In6() {
		return nil, fmt.Errorf("rib: %v is not an IPv6 address", addr)
	}
	p, err := HostPrefix(addr)
	if err != nil {
		return nil, err
	}
	return t.Match(p), nil
}
