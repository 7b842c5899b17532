// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sort"
	"sync"
)

// approxNodesPerWeek is an approximation of the number of new blocks there
// are in a week on average.
const approxNodesPerWeek = 60 * 24 * 7

// chainView provides a flat view of a specific branch of the block chain from
// its tip back to the genesis block and provides various convenience
// functions for comparing chains.
//
// For example, assume a block chain with a side chain as depicted below:
//
//	genesis -> 1 -> 2 -> 3 -> 4  -> 5 ->  6  -> 7  -> 8
//	                      \-> 4a -> 5a -> 6a
//
// The chain view for the branch ending in 6a consists of blocks genesis, 1,
// 2, 3, 4a, 5a, and 6a.
type chainView struct {
	mtx   sync.Mutex
	nodes []*blockNode
}

// newChainView returns a new chain view for the given tip block node.  Passing
// nil as the tip will result in a chain view that is not initialized.  The tip
// can be updated at any time via the setTip function.
func newChainView(tip *blockNode) *chainView {
	// The mutex is intentionally not held since this is a constructor.
	var c chainView
	c.setTip(tip)
	return &c
}

// genesis returns the genesis block for the chain view.  This only differs
// from the exported version in that it is up to the caller to ensure the lock
// is held.
//
// This function MUST be called with the view mutex locked (for reads).
func (c *chainView) genesis() *blockNode {
	if len(c.nodes) == 0 {
		return nil
	}

	return c.nodes[0]
}

// Genesis returns the genesis block for the chain view.
//
// This function is safe for concurrent access.
func (c *chainView) Genesis() *blockNode {
	c.mtx.Lock()
	genesis := c.genesis()
	c.mtx.Unlock()
	return genesis
}

// tip returns the current tip block node for the chain view.  It will return
// nil if there is no tip.  This only differs from the exported version in that
// it is up to the caller to ensure the lock is held.
//
// This function MUST be called with the view mutex locked (for reads).
func (c *chainView) tip() *blockNode {
	if len(c.nodes) == 0 {
		return nil
	}

	return c.nodes[len(c.nodes)-1]
}

// Tip returns the current tip block node for the chain view.  It will return
// nil if there is no tip.
//
// This function is safe for concurrent access.
func (c *chainView) Tip() *blockNode {
	c.mtx.Lock()
	tip := c.tip()
	c.mtx.Unlock()
	return tip
}

// setTip sets the chain view to use the provided block node as the current
// tip and ensures the view is consistent by populating it with the nodes
// obtained by walking backwards all the way to genesis block as necessary.
// Further calls will only perform the minimum work needed, so switching
// between chain tips is efficient.  This only differs from the exported
// version in that it is up to the caller to ensure the lock is held.
//
// This function MUST be called with the view mutex locked (for writes).
func (c *chainView) setTip(node *blockNode) {
	if node == nil {
		// Keep the backing array around for potential future use.
		c.nodes = c.nodes[:0]
		return
	}

	// Create or resize the slice that will hold the block nodes to the
	// provided tip height.  When creating the slice, it is created with
	// some additional capacity for the underlying array as append would do
	// in order to reduce overhead when extending the chain later.  As long
	// as the underlying array already has enough capacity, simply expand or
	// contract the slice accordingly.  The additional capacity is chosen
	// such that the array should only have to be extended about once a
	// week.
	needed := node.height + 1
	if int64(cap(c.nodes)) < needed {
		nodes := make([]*blockNode, needed, needed+approxNodesPerWeek)
		copy(nodes, c.nodes)
		c.nodes = nodes
	} else {
		prevLen := int64(len(c.nodes))
		c.nodes = c.nodes[0:needed]
		for i := prevLen; i < needed; i++ {
			c.nodes[i] = nil
		}
	}

	for node != nil && c.nodes[node.height] != node {
		c.nodes[node.height] = node
		node = node.parent
	}
}

// SetTip sets the chain view to use the provided block node as the current
// tip and ensures the view is consistent by populating it with the nodes
// obtained by walking backwards all the way to genesis block as necessary.
// Further calls will only perform the minimum work needed, so switching
// between chain tips is efficient.
//
// This function is safe for concurrent access.
func (c *chainView) SetTip(node *blockNode) {
	c.mtx.Lock()
	c.setTip(node)
	c.mtx.Unlock()
}

// height returns the height of the tip of the chain view.  It will return -1
// if there is no tip (in other words, there is no best chain).  This only
// differs from the exported version in that it is up to the caller to ensure
// the lock is held.
//
// This function MUST be called with the view mutex locked (for reads).
func (c *chainView) height() int64 {
	return int64(len(c.nodes)) - 1
}

// Height returns the height of the tip of the chain view.  It will return -1
// if there is no tip (in other words, there is no best chain).
//
// This function is safe for concurrent access.
func (c *chainView) Height() int64 {
	c.mtx.Lock()
	height := c.height()
	c.mtx.Unlock()
	return height
}

// nodeByHeight returns the block node at the specified height.  Nil will be
// returned if the height does not exist.  This only differs from the exported
// version in that it is up to the caller to ensure the lock is held.
//
// This function MUST be called with the view mutex locked (for reads).
func (c *chainView) nodeByHeight(height int64) *blockNode {
	if height < 0 || height >= int64(len(c.nodes)) {
		return nil
	}

	return c.nodes[height]
}

// NodeByHeight returns the block node at the specified height.  Nil will be
// returned if the height does not exist.
//
// This function is safe for concurrent access.
func (c *chainView) NodeByHeight(height int64) *blockNode {
	c.mtx.Lock()
	node := c.nodeByHeight(height)
	c.mtx.Unlock()
	return node
}

// contains returns whether or not the chain view contains the passed block
// node.  This only differs from the exported version in that it is up to the
// caller to ensure the lock is held.
//
// This function MUST be called with the view mutex locked (for reads).
func (c *chainView) contains(node *blockNode) bool {
	return c.nodeByHeight(node.height) == node
}

// Contains returns whether or not the chain view contains the passed block
// node.
//
// This function is safe for concurrent access.
func (c *chainView) Contains(node *blockNode) bool {
	c.mtx.Lock()
	contains := c.contains(node)
	c.mtx.Unlock()
	return contains
}

// next returns the successor to the provided node for the chain view.  It
// will return nil if there is no successor or the provided node is not part
// of the view.  This only differs from the exported version in that it is up
// to the caller to ensure the lock is held.
//
// This function MUST be called with the view mutex locked (for reads).
func (c *chainView) next(node *blockNode) *blockNode {
	if node == nil || !c.contains(node) {
		return nil
	}

	return c.nodeByHeight(node.height + 1)
}

// Next returns the successor to the provided node for the chain view.  It
// will return nil if there is no successor or the provided node is not part
// of the view.
//
// This function is safe for concurrent access.
func (c *chainView) Next(node *blockNode) *blockNode {
	c.mtx.Lock()
	next := c.next(node)
	c.mtx.Unlock()
	return next
}

// findFork returns the final common block between the provided node and the
// chain view.  It will return nil if there is no common block.  This only
// differs from the exported version in that it is up to the caller to ensure
// the lock is held.
//
// This function MUST be called with the view mutex locked (for reads).
func (c *chainView) findFork(node *blockNode) *blockNode {
	if node == nil {
		return nil
	}

	// No fork point for node that doesn't have a height that is even with
	// the chain view yet.  Reduce it to the view height first since the
	// common block can't possibly be any higher.
	chainHeight := c.height()
	if node.height > chainHeight {
		node = node.Ancestor(chainHeight)
	}

	// Walk the parent links until a block that is part of the view is found.
	// A node that shares no common ancestor with the view, such as one with
	// a different genesis block, exhausts the walk and results in nil.
	for node != nil && !c.contains(node) {
		node = node.parent
	}

	return node
}

// FindFork returns the final common block between the provided node and the
// chain view.  It will return nil if there is no common block.  For example,
// assume a block chain with a side chain as depicted below:
//
//	genesis -> 1 -> 2 -> ... -> 5 -> 6  -> 7  -> 8
//	                             \-> 6a -> 7a
//
// The fork point between the chain view for the branch ending in 8 and the
// node 7a is the block 5.
//
// This function is safe for concurrent access.
func (c *chainView) FindFork(node *blockNode) *blockNode {
	c.mtx.Lock()
	fork := c.findFork(node)
	c.mtx.Unlock()
	return fork
}

// findEarliestAtLeast returns the earliest block in the view whose
// maxTimestamp is greater than or equal to the provided time.  It will return
// nil when every block in the view is older.  This only differs from the
// exported version in that it is up to the caller to ensure the lock is held.
//
// This function MUST be called with the view mutex locked (for reads).
func (c *chainView) findEarliestAtLeast(t int64) *blockNode {
	// The maxTimestamp field is monotonically non-decreasing along the view,
	// which makes it binary searchable even though the raw block timestamps
	// are not.
	i := sort.Search(len(c.nodes), func(i int) bool {
		return c.nodes[i].maxTimestamp >= t
	})
	if i == len(c.nodes) {
		return nil
	}
	return c.nodes[i]
}

// FindEarliestAtLeast returns the earliest block in the view whose maximum
// chain timestamp is greater than or equal to the provided time.  It will
// return nil when every block in the view is older.
//
// This function is safe for concurrent access.
func (c *chainView) FindEarliestAtLeast(t int64) *blockNode {
	c.mtx.Lock()
	node := c.findEarliestAtLeast(t)
	c.mtx.Unlock()
	return node
}
