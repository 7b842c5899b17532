// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/myriadteam/myrd/chaincfg"
	"github.com/myriadteam/myrd/wire"
)

// zeroHash is the zero value for a chainhash.Hash and is defined here to
// avoid creating multiple instances.
var zeroHash = &chainhash.Hash{}

// blockNode represents a block within the block chain and is primarily used
// to aid in selecting the best chain to be the main chain.
type blockNode struct {
	// parent is the parent block for this node.  It is nil only for the
	// genesis block.
	parent *blockNode

	// skipToAncestor is a non-owning reference used to provide a skip list
	// to significantly speed up traversal to ancestors deep in history.  It
	// is built exactly once, when the node is created, and is immutable
	// afterwards, so it is safe for concurrent reads.  It is purely an
	// acceleration structure and is never required for correctness.
	skipToAncestor *blockNode

	// hash is the hash of the block this node represents.
	hash chainhash.Hash

	// workSum is the total amount of work in the chain up to and including
	// this node, accounted per the work normalization policy active at the
	// node's height.  It is monotonically non-decreasing with height on any
	// single chain.
	workSum *big.Int

	// Some fields from block headers to aid in best chain selection and
	// reconstructing headers from memory.  These must be treated as
	// immutable.
	height       int64
	blockVersion int32
	bits         uint32
	nonce        uint32
	timestamp    int64
	merkleRoot   chainhash.Hash

	// maxTimestamp is the maximum of this block's timestamp and the parent's
	// maxTimestamp.  Unlike the raw timestamps, it is monotonically
	// non-decreasing along any chain which allows binary searching the best
	// chain by time.
	maxTimestamp int64
}

// invertLowestOne turns the lowest 1 bit in the binary representation of a
// number into a 0.
func invertLowestOne(n int64) int64 {
	return n & (n - 1)
}

// calcSkipListHeight returns the height of the ancestor block the skip list
// pointer for the provided height refers to.  It is a pure function of the
// height, so every node at a given height skips to the same ancestor height
// regardless of which branch it is on.
//
// Any result strictly lower than the provided height would produce a working
// skip list, but this particular shape keeps worst-case traversals around 110
// steps for chains up to 2^18 blocks while growing logarithmically beyond
// that, and it must not be altered since the traversal tie-break below
// depends on its exact values.
func calcSkipListHeight(height int64) int64 {
	if height < 2 {
		return 0
	}

	if height&1 != 0 {
		return invertLowestOne(invertLowestOne(height-1)) + 1
	}
	return invertLowestOne(height)
}

// initBlockNode initializes a block node from the given header, parent node,
// and chain parameters.  The workSum is calculated based on the parent, or,
// in the case no parent is provided, it will just be the work for the passed
// block.
//
// This function is NOT safe for concurrent access.  It must only be called
// when initially creating a node.
func initBlockNode(node *blockNode, blockHeader *wire.BlockHeader, parent *blockNode, params *chaincfg.Params) {
	*node = blockNode{
		hash:         blockHeader.BlockHash(),
		blockVersion: blockHeader.Version,
		bits:         blockHeader.Bits,
		nonce:        blockHeader.Nonce,
		timestamp:    blockHeader.Timestamp.Unix(),
		merkleRoot:   blockHeader.MerkleRoot,
	}
	node.maxTimestamp = node.timestamp
	if parent != nil {
		node.parent = parent
		node.height = parent.height + 1
		node.skipToAncestor = parent.Ancestor(calcSkipListHeight(node.height))
		if parent.maxTimestamp > node.maxTimestamp {
			node.maxTimestamp = parent.maxTimestamp
		}
	}

	// The work for the node itself depends on its height and ancestors, so
	// it must only be computed after the node is linked to its parent.
	node.workSum = blockProof(node, params)
	if parent != nil {
		node.workSum.Add(parent.workSum, node.workSum)
	}
}

// newBlockNode returns a new block node for the given block header, parent
// node, and chain parameters.  The workSum is calculated based on the parent,
// or, in the case no parent is provided, it will just be the work for the
// passed block.
func newBlockNode(blockHeader *wire.BlockHeader, parent *blockNode, params *chaincfg.Params) *blockNode {
	var node blockNode
	initBlockNode(&node, blockHeader, parent, params)
	return &node
}

// algo returns the proof-of-work algorithm tag the block of this node was
// mined with.
func (node *blockNode) algo() wire.Algo {
	return wire.VersionAlgo(node.blockVersion)
}

// isAuxpow returns whether the block of this node is merge-mined and
// therefore carries an auxiliary proof of work that is not kept in memory.
func (node *blockNode) isAuxpow() bool {
	return wire.VersionHasAuxpow(node.blockVersion)
}

// Header constructs a block header from the node and returns it.  The header
// of a merge-mined block cannot be reconstructed from the node alone since
// the auxiliary proof only exists in storage; callers that need full headers
// for such blocks must go through BlockChain.HeaderByHash.
//
// This function is safe for concurrent access.
func (node *blockNode) Header() wire.BlockHeader {
	// No lock is needed because all accessed fields are immutable.
	prevHash := zeroHash
	if node.parent != nil {
		prevHash = &node.parent.hash
	}
	return wire.BlockHeader{
		Version:    node.blockVersion,
		PrevBlock:  *prevHash,
		MerkleRoot: node.merkleRoot,
		Timestamp:  time.Unix(node.timestamp, 0),
		Bits:       node.bits,
		Nonce:      node.nonce,
	}
}

// Ancestor returns the ancestor block node at the provided height by
// following the chain backwards from this node.  The returned block will be
// nil when a height is requested that is after the height of the passed node
// or is less than zero.
//
// The traversal uses the skip list pointers where beneficial.  At each step
// the skip pointer is followed unless the previous height's skip target would
// land closer to the requested height, in which case stepping through the
// parent first reaches the better skip pointer.  That choice only affects the
// number of steps, never the result.
//
// This function is safe for concurrent access.
func (node *blockNode) Ancestor(height int64) *blockNode {
	if height < 0 || height > node.height {
		return nil
	}

	n := node
	heightWalk := node.height
	for heightWalk > height {
		heightSkip := calcSkipListHeight(heightWalk)
		heightSkipPrev := calcSkipListHeight(heightWalk - 1)
		if n.skipToAncestor != nil &&
			(heightSkip == height ||
				(heightSkip > height && !(heightSkipPrev < heightSkip-2 &&
					heightSkipPrev >= height))) {

			n = n.skipToAncestor
			heightWalk = heightSkip
			continue
		}

		// A missing parent with blocks still left to traverse means the
		// tree is malformed.  Continuing would silently return a wrong
		// ancestor, which consensus code must never do.
		if n.parent == nil {
			panicf("block node %s at height %d has no parent while "+
				"searching for ancestor at height %d", n.hash, heightWalk,
				height)
		}
		n = n.parent
		heightWalk--
	}

	return n
}

// RelativeAncestor returns the ancestor block node a relative 'distance'
// blocks before this node.  This is equivalent to calling Ancestor with the
// node's height minus provided distance.
//
// This function is safe for concurrent access.
func (node *blockNode) RelativeAncestor(distance int64) *blockNode {
	return node.Ancestor(node.height - distance)
}

// blockIndex provides facilities for keeping track of an in-memory index of
// the block chain.  Although the name block chain suggests a single chain of
// blocks, it is actually a tree-shaped structure where any node can have
// multiple children.  However, there can only be one active branch which does
// indeed form a chain from the tip all the way back to the genesis block.
type blockIndex struct {
	// index contains an entry for every known block tracked by the block
	// index.  It is protected by the embedded mutex.
	sync.RWMutex
	index map[chainhash.Hash]*blockNode
}

// newBlockIndex returns a new empty instance of a block index.
func newBlockIndex() *blockIndex {
	return &blockIndex{
		index: make(map[chainhash.Hash]*blockNode),
	}
}

// lookupNode returns the block node identified by the provided hash.  It will
// return nil if there is no entry for the hash.
//
// This function MUST be called with the block index lock held (for reads).
func (bi *blockIndex) lookupNode(hash *chainhash.Hash) *blockNode {
	return bi.index[*hash]
}

// LookupNode returns the block node identified by the provided hash.  It will
// return nil if there is no entry for the hash.
//
// This function is safe for concurrent access.
func (bi *blockIndex) LookupNode(hash *chainhash.Hash) *blockNode {
	bi.RLock()
	node := bi.lookupNode(hash)
	bi.RUnlock()
	return node
}

// HaveBlock returns whether or not the block index contains the provided
// hash.
//
// This function is safe for concurrent access.
func (bi *blockIndex) HaveBlock(hash *chainhash.Hash) bool {
	bi.RLock()
	_, hasBlock := bi.index[*hash]
	bi.RUnlock()
	return hasBlock
}

// AddNode adds the provided node to the block index.  Duplicate entries are
// not checked so it is up to caller to avoid adding them.
//
// This function is safe for concurrent access.
func (bi *blockIndex) AddNode(node *blockNode) {
	bi.Lock()
	bi.index[node.hash] = node
	bi.Unlock()
}
