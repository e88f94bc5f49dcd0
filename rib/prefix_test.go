/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

package rib

import (
	"net/netip"
	"testing"
)

func p4(s string) Prefix {
	return MustPrefixFromNetip(netip.MustParsePrefix(s))
}

func TestPrefixCanon(t *testing.T) {
	raw := p4("10.1.2.3/8")
	if raw.Netip().Addr().String() != "10.0.0.0" {
		t.Fatalf("expected canonical mask to zero trailing bits, got %s", raw.Netip())
	}
	if !raw.IsCanonical() {
		t.Fatalf("expected canonical prefix to report as canonical")
	}
}

func TestPrefixCovers(t *testing.T) {
	cases := []struct {
		p, q   string
		covers bool
	}{
		{"10.0.0.0/8", "10.1.2.3/32", true},
		{"10.0.0.0/8", "11.0.0.0/8", false},
		{"0.0.0.0/0", "255.255.255.255/32", true},
		{"10.1.2.3/32", "10.1.2.3/32", true},
		{"10.1.2.3/32", "10.0.0.0/8", false}, // longer can't cover shorter
	}
	for _, c := range cases {
		p, q := p4(c.p), p4(c.q)
		if got := p.Covers(q); got != c.covers {
			t.Errorf("%s covers %s = %v, want %v", c.p, c.q, got, c.covers)
		}
	}
}

func TestCommonPrefix(t *testing.T) {
	cases := []struct {
		a, b, want string
	}{
		{"10.0.0.0/8", "11.0.0.0/8", "10.0.0.0/7"},
		{"192.168.1.0/24", "192.168.1.128/25", "192.168.1.0/24"},
		{"10.0.0.0/8", "10.0.0.0/8", "10.0.0.0/8"},
		{"0.0.0.0/0", "255.255.255.255/32", "0.0.0.0/0"},
	}
	for _, c := range cases {
		got := CommonPrefix(p4(c.a), p4(c.b))
		want := p4(c.want)
		if got != want {
			t.Errorf("common(%s, %s) = %s, want %s", c.a, c.b, got, want)
		}
	}
}

func TestBitAt(t *testing.T) {
	p := p4("128.0.0.0/8")
	if p.BitAt(0) != 1 {
		t.Fatalf("expected top bit of 128.x to be 1")
	}
	q := p4("64.0.0.0/8")
	if q.BitAt(0) != 0 || q.BitAt(1) != 1 {
		t.Fatalf("bit decomposition of 64.x wrong: %d %d", q.BitAt(0), q.BitAt(1))
	}
}

func TestHostPrefix(t *testing.T) {
	addr := netip.MustParseAddr("10.1.2.3")
	p, err := HostPrefix(addr)
	if err != nil {
		t.Fatal(err)
	}
	if p.Length != MaxLengthIPv4 {
		t.Fatalf("expected host prefix length %d, got %d", MaxLengthIPv4, p.Length)
	}

	addr6 := netip.MustParseAddr("2001:db8::1")
	p6, err := HostPrefix(addr6)
	if err != nil {
		t.Fatal(err)
	}
	if p6.Length != MaxLengthIPv6 {
		t.Fatalf("expected host prefix length %d, got %d", MaxLengthIPv6, p6.Length)
	}
}
