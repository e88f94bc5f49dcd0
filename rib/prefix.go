/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

// Package rib implements the prefix-indexed routing table at the
// core of a BGP speaker: a Patricia-style compressed binary trie
// keyed by variable-length IPv4/IPv6 prefixes, supporting
// longest-prefix-match, exact lookup, reference-counted deletion,
// and pre-order traversal.
package rib

import (
	"fmt"
	"net/netip"
)

// Family identifies the address family a Prefix belongs to.
type Family uint8

const (
	_ Family = iota
	FamilyIPv4
	FamilyIPv6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "unknown"
	}
}

// Maximum prefix length for each supported family.
const (
	MaxLengthIPv4 = 32
	MaxLengthIPv6 = 128
)

// maskbit[i] is a byte with the top i bits set, 0 <= i <= 8.
var maskbit = [9]byte{0x00, 0x80, 0xc0, 0xe0, 0xf0, 0xf8, 0xfc, 0xfe, 0xff}

// Prefix is an immutable-by-convention (family, length, bits) value.
// Bits beyond Length are always zero in canonical form; see Canon.
type Prefix struct {
	Family Family
	Length uint8
	Bits   [16]byte // network order; only the first byteLen() bytes are meaningful
}

func (p Prefix) maxLength() uint8 {
	if p.Family == FamilyIPv6 {
		return MaxLengthIPv6
	}
	return MaxLengthIPv4
}

// PrefixFromNetip converts a netip.Prefix into the table's internal
// canonical representation.
func PrefixFromNetip(p netip.Prefix) (Prefix, error) {
	addr := p.Addr()
	var out Prefix
	switch {
	case addr.Is4():
		out.Family = FamilyIPv4
		b := addr.As4()
		copy(out.Bits[:], b[:])
	case addr.Is4In6():
		out.Family = FamilyIPv4
		b := addr.As4()
		copy(out.Bits[:], b[:])
	case addr.Is6():
		out.Family = FamilyIPv6
		b := addr.As16()
		copy(out.Bits[:], b[:])
	default:
		return Prefix{}, fmt.Errorf("rib: invalid address %v", addr)
	}
	if p.Bits() < 0 || uint8(p.Bits()) > out.maxLength() {
		return Prefix{}, fmt.Errorf("rib: prefix length %d out of range for %s", p.Bits(), out.Family)
	}
	out.Length = uint8(p.Bits())
	return out.Canon(), nil
}

// MustPrefixFromNetip is PrefixFromNetip but panics on error; useful
// in tests and demo code building prefixes from literals.
func MustPrefixFromNetip(p netip.Prefix) Prefix {
	out, err := PrefixFromNetip(p)
	if err != nil {
		panic(err)
	}
	return out
}

// HostPrefix builds a host-length (/32 or /128) Prefix for addr, the
// form MatchIPv4/MatchIPv6 construct before calling Match.
func HostPrefix(addr netip.Addr) (Prefix, error) {
	return PrefixFromNetip(netip.PrefixFrom(addr, addr.BitLen()))
}

// Netip converts back to the standard library's representation.
func (p Prefix) Netip() netip.Prefix {
	var addr netip.Addr
	if p.Family == FamilyIPv6 {
		addr = netip.AddrFrom16(p.Bits)
	} else {
		var b [4]byte
		copy(b[:], p.Bits[:4])
		addr = netip.AddrFrom4(b)
	}
	return netip.PrefixFrom(addr, int(p.Length))
}

// byteLen returns how many bytes of Bits are in play for this family.
func (p Prefix) byteLen() int {
	if p.Family == FamilyIPv6 {
		return 16
	}
	return 4
}

// Canon returns p with every bit beyond Length masked to zero,
// satisfying invariant 7/8 of the design (a node's stored prefix is
// always canonical).
func (p Prefix) Canon() Prefix {
	out := p
	wholeBytes := int(p.Length / 8)
	n := out.byteLen()
	for i := wholeBytes + 1; i < n; i++ {
		out.Bits[i] = 0
	}
	if wholeBytes < n {
		out.Bits[wholeBytes] &= maskbit[p.Length%8]
	}
	return out
}

// IsCanonical reports whether bits beyond Length are already zero.
func (p Prefix) IsCanonical() bool {
	return p == p.Canon()
}

// BitAt returns the bit at offset n (0 = most significant bit of
// Bits[0]) as 0 or 1.
func (p Prefix) BitAt(n uint8) uint8 {
	byteIdx := n / 8
	shift := 7 - (n % 8)
	return (p.Bits[byteIdx] >> shift) & 1
}

// Covers reports whether p covers q: p.Length <= q.Length and the
// first p.Length bits of the two prefixes agree.
func (p Prefix) Covers(q Prefix) bool {
	if p.Length > q.Length {
		return false
	}
	return commonBitLen(p, q) >= p.Length
}

// commonBitLen scans byte-wise then bit-wise for the length of the
// longest prefix shared by a and b, capped at min(a.Length, b.Length).
func commonBitLen(a, b Prefix) uint8 {
	limit := a.Length
	if b.Length < limit {
		limit = b.Length
	}
	n := a.byteLen()
	if b.byteLen() < n {
		n = b.byteLen()
	}

	var i int
	for i = 0; i < n && i*8 < int(limit); i++ {
		if a.Bits[i] != b.Bits[i] {
			break
		}
	}

	length := uint8(i * 8)
	if length >= limit {
		return limit
	}
	diff := a.Bits[i] ^ b.Bits[i]
	mask := byte(0x80)
	for length < limit && diff&mask == 0 {
		mask >>= 1
		length++
	}
	return length
}

// CommonPrefix returns the longest prefix that covers both a and b,
// i.e. the glue-node prefix §4.1 describes. Equal inputs return a
// copy at the same length.
func CommonPrefix(a, b Prefix) Prefix {
	length := commonBitLen(a, b)
	out := a
	out.Length = length
	return out.Canon()
}

func (p Prefix) String() string {
	return p.Netip().String()
}
