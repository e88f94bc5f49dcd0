/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

package rib

import "sync"

// poolSize is the number of node records appended to the free-list
// each time it runs dry.
const poolSize = 1024

// nodePool is a process-wide free-list of Node records, grown in
// fixed-size slabs and reused on release. Nodes are churn-heavy under
// route flap, are all the same size, and need no destructor beyond
// the bookkeeping delete already performs — a slab beats a general
// allocator here and makes bulk teardown (ReleaseAllPools) cheap.
//
// Guarded by a mutex around push/pop, since one pool is commonly
// shared across goroutines running independent tables.
type nodePool struct {
	mu    sync.Mutex
	pools []*[poolSize]Node
	free  *Node
}

var globalPool nodePool

// allocate removes the head of the free-list, growing a new pool if
// it is empty, and returns a zeroed record.
func (p *nodePool) allocate() *Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.free == nil {
		p.grow()
	}

	n := p.free
	p.free = n.freeLink
	*n = Node{}
	return n
}

func (p *nodePool) grow() {
	arr := new([poolSize]Node)
	p.pools = append(p.pools, arr)
	for i := range arr {
		arr[i].freeLink = p.free
		p.free = &arr[i]
	}
}

// release prepends n to the free-list. No zeroing is required here;
// allocate zeroes on hand-out.
func (p *nodePool) release(n *Node) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n.freeLink = p.free
	p.free = n
}

// shutdown frees every pool and clears the free-list. Callers must
// guarantee no node references remain anywhere in the process.
func (p *nodePool) shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pools = nil
	p.free = nil
}

// ReleaseAllPools frees the global node slab. Call it only once every
// table in the process has been torn down.
func ReleaseAllPools() {
	globalPool.shutdown()
}
