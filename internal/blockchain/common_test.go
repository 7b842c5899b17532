// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/rand"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/myriadteam/myrd/chaincfg"
	"github.com/myriadteam/myrd/wire"
)

// testNoncePrng provides a deterministic prng for the nonce in generated fake
// nodes.  The ensures the node hashes are unique while generating the same
// values each run for reproducibility.
var testNoncePrng = rand.New(rand.NewSource(0))

// newFakeChain returns a chain that is usable for synthetic tests.  It is
// backed by the provided parameters with only the genesis block accepted.
func newFakeChain(params *chaincfg.Params) *BlockChain {
	chain, err := New(&Config{ChainParams: params})
	if err != nil {
		panic(err)
	}
	return chain
}

// newFakeHeader returns a header that is usable for synthetic tests.  The
// nonce is generated to make the header hash unique and the previous block
// hash is taken from the provided parent node, or set to all zeroes when the
// parent is nil.
func newFakeHeader(parent *blockNode, blockVersion int32, bits uint32,
	timestamp time.Time) *wire.BlockHeader {

	var prevHash chainhash.Hash
	if parent != nil {
		prevHash = parent.hash
	}
	return &wire.BlockHeader{
		Version:   blockVersion,
		PrevBlock: prevHash,
		Timestamp: timestamp,
		Bits:      bits,
		Nonce:     testNoncePrng.Uint32(),
	}
}

// newFakeNode creates a block node that is usable for synthetic tests by
// generating a fake header with the provided fields and linking the node to
// the provided parent.
func newFakeNode(parent *blockNode, blockVersion int32, bits uint32,
	timestamp time.Time, params *chaincfg.Params) *blockNode {

	header := newFakeHeader(parent, blockVersion, bits, timestamp)
	return newBlockNode(header, parent, params)
}

// chainedFakeNodes returns the specified number of fake nodes constructed
// such that each subsequent node points to the previous one to create a
// chain.  The first node will point to the passed parent which can be nil if
// desired.  Timestamps advance by the target block spacing.
func chainedFakeNodes(parent *blockNode, numNodes int, params *chaincfg.Params) []*blockNode {
	nodes := make([]*blockNode, numNodes)
	tip := parent
	blockTime := time.Now()
	if tip != nil {
		blockTime = time.Unix(tip.timestamp, 0)
	}
	for i := 0; i < numNodes; i++ {
		blockTime = blockTime.Add(params.TargetTimePerBlock)
		node := newFakeNode(tip, 4, params.PowLimitBits, blockTime, params)
		tip = node
		nodes[i] = node
	}
	return nodes
}

// branchTip is a convenience function to grab the tip of a chain of block
// nodes created via chainedFakeNodes.
func branchTip(nodes []*blockNode) *blockNode {
	return nodes[len(nodes)-1]
}
