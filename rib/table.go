/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

package rib

// Table is the owning structure for one AFI/SAFI trie: a set of
// Nodes reachable from top, reference-counted at the table level
// the same way each Node is reference-counted individually.
type Table struct {
	top   *Node
	count uint64
	lock  int

	AFI  AFI
	SAFI SAFI
	Type TableType

	owner *Owner

	// Debug gates the invariant checker (Check, run automatically by
	// First) and the internal assertions. Logging does not depend on
	// it; it happens whenever a Logger is attached. Off by default: walking
	// the whole tree on every traversal start is affordable during
	// development but not worth paying for in production.
	Debug bool

	log *Logger
}

// NewTable returns a table tagged with afi/safi, born with one
// outstanding lock held on behalf of the caller.
func NewTable(afi AFI, safi SAFI) *Table {
	return &Table{
		AFI:  afi,
		SAFI: safi,
		Type: TableMain,
		lock: 1,
	}
}

// WithOwner attaches the external peer back-reference and locks it.
// Call before the table is shared.
func (t *Table) WithOwner(o *Owner) *Table {
	if o != nil {
		o.Lock()
	}
	t.owner = o
	return t
}

// WithLogger attaches a Logger; a nil Logger (the default) makes all
// logging calls no-ops.
func (t *Table) WithLogger(l *Logger) *Table {
	t.log = l
	return t
}

func (t *Table) logger() *Logger { return t.log }

// Lock increments the table's reference count.
func (t *Table) Lock() *Table {
	t.lock++
	return t
}

// Unlock decrements the table's reference count; at zero it runs
// bulk free, tearing down every remaining node.
func (t *Table) Unlock() {
	assertf(t, t.lock > 0, "table unlock with lock already zero")
	t.lock--
	if t.lock == 0 {
		t.bulkFree()
	}
}

// Finish unlocks *tp and nils the caller's handle, so a deferred or
// repeated Finish on the same variable is a safe no-op.
func Finish(tp **Table) {
	if *tp != nil {
		(*tp).Unlock()
		*tp = nil
	}
}

// Count returns the number of nodes currently in the trie.
func (t *Table) Count() uint64 { return t.count }

func (t *Table) setLink(parent, child *Node) {
	bit := child.Prefix.BitAt(parent.Prefix.Length)
	*parent.childSlot(bit) = child
	child.parent = parent
}

func (t *Table) newNode(p Prefix) *Node {
	n := globalPool.allocate()
	n.Prefix = p
	n.table = t
	return n
}

// Get finds the node for prefix, inserting it (and any glue node
// needed to splice it into the trie) if absent. prn must be nil
// unless t.SAFI == SAFIMplsVPN. Returns with one lock held by the
// caller.
func (t *Table) Get(prefix Prefix, prn *Node) *Node {
	assertf(t, prn == nil || t.SAFI == SAFIMplsVPN, "prn supplied to non-MPLS-VPN table (safi=%d)", t.SAFI)

	p := prefix.Canon()

	var match *Node
	node := t.top
	for node != nil && node.Prefix.Length <= p.Length && node.Prefix.Covers(p) {
		if node.Prefix.Length == p.Length {
			assertf(t, node.prn == prn, "prn mismatch on existing node %s", p)
			return node.Lock()
		}
		match = node
		node = node.child(p.BitAt(node.Prefix.Length))
	}

	var newNode *Node
	if node == nil {
		// Attach as new leaf under match, the deepest covering
		// ancestor (outcome 3), or become top if the trie was empty.
		newNode = t.newNode(p)
		if match != nil {
			t.setLink(match, newNode)
		} else {
			t.top = newNode
		}
	} else {
		// Divergence (outcome 4): splice a glue node in place of
		// node, covering both node and p.
		glue := t.newNode(CommonPrefix(node.Prefix, p))
		t.setLink(glue, node)
		if match != nil {
			t.setLink(match, glue)
		} else {
			t.top = glue
		}

		if glue.Prefix.Length != p.Length {
			newNode = t.newNode(p)
			t.setLink(glue, newNode)
			t.count++
		} else {
			newNode = glue
		}
	}

	newNode.prn = prn
	t.count++
	newNode.Lock()
	t.logger().Verbosef("get: inserted/locked node %s (count=%d)", newNode.Prefix, t.count)
	return newNode
}

// Lookup returns the node whose prefix exactly equals prefix and
// which carries a payload, or nil. Adds one lock on success.
func (t *Table) Lookup(prefix Prefix) *Node {
	p := prefix.Canon()
	node := t.top
	for node != nil && node.Prefix.Length <= p.Length && node.Prefix.Covers(p) {
		if node.Prefix.Length == p.Length && node.Info != nil {
			return node.Lock()
		}
		node = node.child(p.BitAt(node.Prefix.Length))
	}
	return nil
}

// Match performs longest-prefix-match: among all nodes covering
// prefix that carry a payload, returns the deepest one, locked once.
func (t *Table) Match(prefix Prefix) *Node {
	p := prefix.Canon()
	var matched *Node
	node := t.top
	for node != nil && node.Prefix.Length <= p.Length && node.Prefix.Covers(p) {
		if node.Info != nil {
			matched = node
		}
		node = node.child(p.BitAt(node.Prefix.Length))
	}
	if matched != nil {
		return matched.Lock()
	}
	return nil
}

// deleteNode frees n once its preconditions hold: a two-children glue
// node is left alone at lock==0 (it is structurally required until
// one of its children goes away), otherwise n is unlinked, its slot
// handed to its sole child (if any), and the parent is recursively
// deleted if it is now a zero-lock stub.
func (t *Table) deleteNode(n *Node) {
	assertf(t, n.lock == 0, "delete precondition: lock != 0 on %s", n.Prefix)
	assertf(t, n.Info == nil, "delete precondition: info != nil on %s", n.Prefix)
	assertf(t, !n.OnWorkQueue, "delete precondition: on_wq on %s", n.Prefix)

	if n.hasTwoChildren() {
		// Structurally required glue; stays at lock==0 until its
		// last child's delete recurses into it. Never swept
		// proactively.
		return
	}

	var child *Node
	if n.left != nil {
		child = n.left
	} else {
		child = n.right
	}

	parent := n.parent
	if child != nil {
		child.parent = parent
	}
	if parent != nil {
		if parent.left == n {
			parent.left = child
		} else {
			parent.right = child
		}
	} else {
		t.top = child
	}

	t.count--
	t.logger().Verbosef("delete: freed node %s (count=%d)", n.Prefix, t.count)
	globalPool.release(n)

	if parent != nil && parent.lock == 0 {
		t.deleteNode(parent)
	}
}

// bulkFree is the escape hatch run exactly when t.lock reaches zero:
// it frees every node regardless of its own lock count, bypassing
// the normal discipline because the caller has already guaranteed
// quiescence.
func (t *Table) bulkFree() {
	node := t.top
	for node != nil {
		if node.left != nil {
			node = node.left
			continue
		}
		if node.right != nil {
			node = node.right
			continue
		}

		assertf(t, node.Info == nil && node.AdjIn == nil && node.AdjOut == nil && !node.OnWorkQueue,
			"node %s still has payload at table teardown", node.Prefix)

		tmp := node
		node = node.parent

		t.count--
		tmp.lock = 0 // cause an assert if unlocked after this
		globalPool.release(tmp)

		if node != nil {
			if node.left == tmp {
				node.left = nil
			} else {
				node.right = nil
			}
		}
	}

	assertf(t, t.count == 0, "table count mismatch after bulk free: %d remaining", t.count)

	if t.owner != nil {
		t.owner.Unlock()
		t.owner = nil
	}
	t.top = nil
	t.logger().Verbosef("table torn down (afi=%s safi=%d)", t.AFI, t.SAFI)
}
