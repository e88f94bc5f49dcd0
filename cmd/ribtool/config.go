/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config drives one ribtool run: a table to build and a set of
// lookups to perform against it. Loaded the same way
// manager.LoadConfig reads wg_data/config.json — os.ReadFile followed
// by json.Unmarshal — but ribtool's config has no identity, peers, or
// invites, since a routing table has no handshake state to persist.
type Config struct {
	AFI     string       `json:"afi"`     // "ipv4" or "ipv6"
	SAFI    string       `json:"safi"`    // "unicast", "multicast", or "mpls-vpn"
	Debug   bool         `json:"debug"`   // enable invariant checking and verbose logging
	Routes  []RouteEntry `json:"routes"`  // inserted in order
	Lookups []string     `json:"lookups"` // host addresses matched after insertion
}

// RouteEntry is one route to install. Info is stored verbatim as the
// node's payload and echoed back by lookups/tree printing.
type RouteEntry struct {
	Prefix string `json:"prefix"`
	Info   string `json:"info"`
}

// LoadConfig reads and parses a ribtool config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ribtool: reading config: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("ribtool: parsing config: %w", err)
	}
	return &c, nil
}
