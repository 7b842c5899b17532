// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/container/lru"

	"github.com/myriadteam/myrd/chaincfg"
	"github.com/myriadteam/myrd/wire"
)

// auxpowHeaderCacheLimit is the maximum number of full merge-mined headers
// kept in memory.  Headers beyond the limit are evicted in least recently
// used order and must be fetched from the header source again on demand.
const auxpowHeaderCacheLimit = 1000

// panicf is a convenience function that formats according to the given format
// specifier and arguments and then logs the result at the critical level and
// panics with it.
func panicf(format string, args ...interface{}) {
	str := fmt.Sprintf(format, args...)
	log.Critical(str)
	panic(str)
}

// HeaderSource provides access to full block headers keyed by hash.  It is
// used to retrieve the headers of merge-mined blocks since the auxiliary
// proof of work they carry is not kept in the block index.
//
// The returned header must not be mutated by the implementation after it is
// returned.
type HeaderSource interface {
	// HeaderByHash returns the full header identified by the given hash or
	// an error when it is not available.
	HeaderByHash(hash *chainhash.Hash) (*wire.BlockHeader, error)
}

// BestState houses information about the current best chain tip.  It is a
// point-in-time snapshot and will not be updated as the chain extends.
type BestState struct {
	Hash      chainhash.Hash // The hash of the tip block.
	Height    int64          // The height of the tip block.
	Bits      uint32         // The difficulty bits of the tip block.
	Algo      wire.Algo      // The proof-of-work algorithm of the tip block.
	Time      time.Time      // The timestamp of the tip block.
	TotalWork *big.Int       // Cumulative normalized work on the best chain.
}

// newBestState returns a snapshot of the chain state from the provided tip
// node.
func newBestState(tip *blockNode) *BestState {
	return &BestState{
		Hash:      tip.hash,
		Height:    tip.height,
		Bits:      tip.bits,
		Algo:      tip.algo(),
		Time:      time.Unix(tip.timestamp, 0),
		TotalWork: new(big.Int).Set(tip.workSum),
	}
}

// Config is a descriptor which specifies the blockchain instance
// configuration.
type Config struct {
	// ChainParams identifies which chain parameters the chain is associated
	// with.
	//
	// This field is required.
	ChainParams *chaincfg.Params

	// HeaderSource defines an optional source for the full headers of
	// merge-mined blocks.  When it is nil, requests for such headers fail
	// with ErrNoAuxpowSource unless the header is still in the cache from
	// when it was accepted.
	HeaderSource HeaderSource
}

// BlockChain provides functions for working with the myriad block chain.  It
// maintains the tree of known block headers, selects the chain with the most
// cumulative normalized work as the best chain, and answers queries against
// both the tree and the best chain projection.
type BlockChain struct {
	// The following fields are set when the instance is created and can't
	// be changed afterwards, so there is no need to protect them with a
	// separate mutex.
	chainParams  *chaincfg.Params
	headerSource HeaderSource

	// auxpowHeaderCache caches the full headers of merge-mined blocks so
	// repeated requests do not hit the header source.  It is internally
	// safe for concurrent access.
	auxpowHeaderCache *lru.Map[chainhash.Hash, wire.BlockHeader]

	// chainLock protects concurrent access to the vast majority of the
	// fields in this struct below this point.
	chainLock sync.RWMutex

	// index houses the entire block tree including the genesis block, the
	// main chain, and any side chains.
	index *blockIndex

	// bestChain tracks the current active chain by making use of an
	// efficient chain view into the block index.
	bestChain *chainView
}

// New returns a BlockChain instance using the provided configuration details.
func New(config *Config) (*BlockChain, error) {
	if config.ChainParams == nil {
		return nil, AssertError("blockchain.New chain parameters nil")
	}
	params := config.ChainParams

	b := BlockChain{
		chainParams:       params,
		headerSource:      config.HeaderSource,
		auxpowHeaderCache: lru.NewMap[chainhash.Hash, wire.BlockHeader](auxpowHeaderCacheLimit),
		index:             newBlockIndex(),
	}

	genesisHeader := params.GenesisBlock
	genesisNode := newBlockNode(&genesisHeader, nil, params)
	b.index.AddNode(genesisNode)
	b.bestChain = newChainView(genesisNode)

	log.Infof("Chain initialized (%s, genesis %s)", params.Name,
		genesisNode.hash)
	return &b, nil
}

// maybeCacheAuxpowHeader stores the full header in the merge-mined header
// cache when it carries an auxiliary proof of work.  Headers of regular
// blocks can always be reconstructed from the block index, so caching them
// would only waste the limited cache space.
func (b *BlockChain) maybeCacheAuxpowHeader(hash *chainhash.Hash, header *wire.BlockHeader) {
	if header.IsAuxpow() {
		b.auxpowHeaderCache.Put(*hash, *header)
	}
}

// AcceptHeader adds the provided header to the block tree and potentially
// reorganizes the best chain when the resulting branch has more cumulative
// work than the current one.  The header is expected to have already passed
// all contextual and proof-of-work validation.
//
// When the header is a duplicate of one already in the tree, an error with
// kind ErrDuplicateBlock is returned.  When the parent of the header is not
// in the tree, an error with kind ErrMissingParent is returned.
//
// This function is safe for concurrent access.
func (b *BlockChain) AcceptHeader(header *wire.BlockHeader) error {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	hash := header.BlockHash()
	if b.index.HaveBlock(&hash) {
		str := fmt.Sprintf("already have block %s", hash)
		return contextError(ErrDuplicateBlock, str)
	}

	parent := b.index.LookupNode(&header.PrevBlock)
	if parent == nil {
		str := fmt.Sprintf("parent block %s of block %s is not known",
			header.PrevBlock, hash)
		return contextError(ErrMissingParent, str)
	}

	node := newBlockNode(header, parent, b.chainParams)
	b.index.AddNode(node)
	b.maybeCacheAuxpowHeader(&hash, header)

	// Extend or reorganize the best chain whenever the new branch has
	// strictly more cumulative work.  Ties leave the current best chain in
	// place so the first seen branch wins.
	tip := b.bestChain.Tip()
	if node.workSum.Cmp(tip.workSum) <= 0 {
		log.Debugf("Block %s (height %d, algo %s) extends a side chain",
			node.hash, node.height, node.algo())
		return nil
	}

	if node.parent != tip {
		fork := b.bestChain.FindFork(node)
		log.Infof("Reorganizing chain to block %s (height %d), fork point "+
			"%s (height %d)", node.hash, node.height, fork.hash, fork.height)
	} else {
		log.Debugf("Best chain extended to block %s (height %d, algo %s, "+
			"work %v)", node.hash, node.height, node.algo(), node.workSum)
	}
	b.bestChain.SetTip(node)
	return nil
}

// BestSnapshot returns information about the current best chain block and
// related state as of the current point in time.  The returned instance must
// be treated as immutable since it is shared by all callers.
//
// This function is safe for concurrent access.
func (b *BlockChain) BestSnapshot() *BestState {
	b.chainLock.RLock()
	state := newBestState(b.bestChain.Tip())
	b.chainLock.RUnlock()
	return state
}

// HaveBlock returns whether or not the chain instance has the block
// represented by the passed hash, on any branch.
//
// This function is safe for concurrent access.
func (b *BlockChain) HaveBlock(hash *chainhash.Hash) bool {
	return b.index.HaveBlock(hash)
}

// MainChainHasBlock returns whether or not the block with the given hash is
// in the main chain.
//
// This function is safe for concurrent access.
func (b *BlockChain) MainChainHasBlock(hash *chainhash.Hash) bool {
	node := b.index.LookupNode(hash)
	return node != nil && b.bestChain.Contains(node)
}

// BlockHeightByHash returns the height of the block with the given hash in
// the main chain.  An error with kind ErrNotInMainChain is returned for
// blocks on side chains and ErrUnknownBlock for blocks that are not known at
// all.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockHeightByHash(hash *chainhash.Hash) (int64, error) {
	node := b.index.LookupNode(hash)
	if node == nil {
		return 0, unknownBlockError(hash)
	}
	if !b.bestChain.Contains(node) {
		str := fmt.Sprintf("block %s is not in the main chain", hash)
		return 0, contextError(ErrNotInMainChain, str)
	}
	return node.height, nil
}

// BlockHashByHeight returns the hash of the block at the given height in the
// main chain.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockHashByHeight(height int64) (*chainhash.Hash, error) {
	node := b.bestChain.NodeByHeight(height)
	if node == nil {
		str := fmt.Sprintf("no block at height %d exists", height)
		return nil, contextError(ErrNotInMainChain, str)
	}
	return &node.hash, nil
}

// fullHeader returns the complete header for the provided node.  Headers of
// regular blocks are reconstructed directly from the node.  Headers of
// merge-mined blocks are served from the cache when possible and fetched
// from the configured header source otherwise.
func (b *BlockChain) fullHeader(node *blockNode) (wire.BlockHeader, error) {
	if !node.isAuxpow() {
		return node.Header(), nil
	}

	if header, ok := b.auxpowHeaderCache.Get(node.hash); ok {
		return header, nil
	}
	if b.headerSource == nil {
		str := fmt.Sprintf("no header source to load merge-mined block %s "+
			"from", node.hash)
		return wire.BlockHeader{}, contextError(ErrNoAuxpowSource, str)
	}
	header, err := b.headerSource.HeaderByHash(&node.hash)
	if err != nil {
		return wire.BlockHeader{}, err
	}
	b.auxpowHeaderCache.Put(node.hash, *header)
	return *header, nil
}

// HeaderByHash returns the block header identified by the given hash from
// any branch of the block tree.  An error with kind ErrUnknownBlock is
// returned when the hash is not known and ErrNoAuxpowSource when the header
// belongs to a merge-mined block and no source for its auxiliary proof is
// available.
//
// This function is safe for concurrent access.
func (b *BlockChain) HeaderByHash(hash *chainhash.Hash) (wire.BlockHeader, error) {
	node := b.index.LookupNode(hash)
	if node == nil {
		return wire.BlockHeader{}, unknownBlockError(hash)
	}
	return b.fullHeader(node)
}

// HeaderByHeight returns the block header at the given height in the main
// chain.
//
// This function is safe for concurrent access.
func (b *BlockChain) HeaderByHeight(height int64) (wire.BlockHeader, error) {
	node := b.bestChain.NodeByHeight(height)
	if node == nil {
		str := fmt.Sprintf("no block at height %d exists", height)
		return wire.BlockHeader{}, contextError(ErrNotInMainChain, str)
	}
	return b.fullHeader(node)
}

// ChainWork returns the total normalized work up to and including the block
// of the provided hash.
//
// This function is safe for concurrent access.
func (b *BlockChain) ChainWork(hash *chainhash.Hash) (*big.Int, error) {
	node := b.index.LookupNode(hash)
	if node == nil {
		return nil, unknownBlockError(hash)
	}
	return new(big.Int).Set(node.workSum), nil
}

// BlockProofEquivalentTime returns a signed duration in seconds expressing
// the difference in cumulative chain work between the two provided blocks in
// terms of mining time at the difficulty of the current best chain tip.  The
// result is positive when the first block has more cumulative work.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockProofEquivalentTime(toHash, fromHash *chainhash.Hash) (int64, error) {
	to := b.index.LookupNode(toHash)
	if to == nil {
		return 0, unknownBlockError(toHash)
	}
	from := b.index.LookupNode(fromHash)
	if from == nil {
		return 0, unknownBlockError(fromHash)
	}

	b.chainLock.RLock()
	tip := b.bestChain.Tip()
	b.chainLock.RUnlock()
	return blockProofEquivalentTime(to, from, tip, b.chainParams), nil
}

// LastBlockForAlgo returns the hash of the most recent block in the main
// chain that was mined with the provided proof-of-work algorithm, or nil
// when the algorithm has never been mined on the main chain.
//
// This function is safe for concurrent access.
func (b *BlockChain) LastBlockForAlgo(algo wire.Algo) *chainhash.Hash {
	b.chainLock.RLock()
	node := lastBlockIndexForAlgo(b.bestChain.Tip(), algo)
	b.chainLock.RUnlock()
	if node == nil {
		return nil
	}
	return &node.hash
}

// FindEarliestAtLeast returns the hash of the earliest block in the main
// chain at which the maximum of all block timestamps up to and including
// that block is greater than or equal to the provided time.  Nil is returned
// when every block on the main chain is older.
//
// This function is safe for concurrent access.
func (b *BlockChain) FindEarliestAtLeast(t time.Time) *chainhash.Hash {
	node := b.bestChain.FindEarliestAtLeast(t.Unix())
	if node == nil {
		return nil
	}
	return &node.hash
}

// LatestBlockLocator returns a block locator for the current tip of the main
// chain.
//
// This function is safe for concurrent access.
func (b *BlockChain) LatestBlockLocator() BlockLocator {
	return b.bestChain.BlockLocator(nil)
}

// BlockLocatorFromHash returns a block locator for the passed block hash.
// It is primarily used in response to protocol messages that carry a block
// hash a remote peer wants a locator for.
//
// In addition to the general algorithm referenced above, this function will
// return the block locator for the latest known tip of the main chain if the
// passed hash is not currently known.
//
// This function is safe for concurrent access.
func (b *BlockChain) BlockLocatorFromHash(hash *chainhash.Hash) BlockLocator {
	node := b.index.LookupNode(hash)
	return b.bestChain.BlockLocator(node)
}
