// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math"
	"math/big"

	"github.com/myriadteam/myrd/blockchain/standalone"
	"github.com/myriadteam/myrd/chaincfg"
	"github.com/myriadteam/myrd/wire"
)

const (
	// workAlgoCount is the number of proof-of-work algorithms that
	// participate in work normalization.  Algorithms added after the
	// normalization rules activated contribute to the geometric mean
	// product, but the divisors and the root are fixed at this count so
	// historical chain work is reproduced exactly.
	workAlgoCount = 5

	// decayWindow is the number of blocks a per-algorithm work sample
	// remains valid under the decayed normalization rules before it decays
	// to nothing.
	decayWindow = 32

	// geoDecayWindow is the decay window used by the geometric mean rules.
	geoDecayWindow = 100
)

// blockProofBase returns the raw amount of work the block of the provided
// node contributes, derived from its compact difficulty bits alone.  It is
// zero for difficulty bits that encode a negative, zero, or out of range
// target.
func blockProofBase(node *blockNode) *big.Int {
	return standalone.CalcWork(node.bits)
}

// algoWorkFactor returns the multiplier applied to the raw work of a block
// mined with the provided algorithm under the weighted work rules.  The
// factor is the absolute work ratio of the algorithm relative to sha256d
// times an optimisation factor.  Algorithms added after the weighted work
// rules were retired have no factor and weigh the same as sha256d.
func algoWorkFactor(algo wire.Algo) int64 {
	switch algo {
	case wire.AlgoSHA256D:
		return 1
	case wire.AlgoScrypt:
		return 1024 * 4
	case wire.AlgoGroestl:
		return 64 * 8
	case wire.AlgoSkein:
		return 4 * 6
	case wire.AlgoQubit:
		return 128 * 8
	default:
		return 1
	}
}

// powLimitWork returns the amount of work a block mined exactly at the
// minimum allowed difficulty contributes.  It serves as the substitute work
// sample for algorithms with no recent blocks under the rules that require
// one.
func powLimitWork(params *chaincfg.Params) *big.Int {
	return standalone.CalcWork(params.PowLimitBits)
}

// prevWorkForAlgo returns the raw work of the most recent block mined with
// the provided algorithm at or before the provided node, searching all the
// way back to the genesis block.  The minimum difficulty work is returned
// when the algorithm has never been mined.
func prevWorkForAlgo(node *blockNode, algo wire.Algo, params *chaincfg.Params) *big.Int {
	for n := node; n != nil; n = n.parent {
		if n.algo() == algo {
			return blockProofBase(n)
		}
	}
	return powLimitWork(params)
}

// prevWorkForAlgoWithDecay returns the work of the most recent block mined
// with the provided algorithm at or before the provided node, scaled down
// linearly by its distance from the node.  The minimum difficulty work acts
// as both a floor for the scaled result and the fallback when no block with
// the algorithm exists within the decay window.
//
// Note that the window is checked before the algorithm, so a match exactly
// at the window boundary decays to zero and is floored rather than being
// excluded.  This quirk is consensus critical and must be preserved.
func prevWorkForAlgoWithDecay(node *blockNode, algo wire.Algo, params *chaincfg.Params) *big.Int {
	distance := int64(0)
	for n := node; n != nil; n = n.parent {
		if distance > decayWindow {
			return powLimitWork(params)
		}
		if n.algo() == algo {
			work := blockProofBase(n)
			work.Mul(work, big.NewInt(decayWindow-distance))
			work.Div(work, big.NewInt(decayWindow))
			if limit := powLimitWork(params); work.Cmp(limit) < 0 {
				return limit
			}
			return work
		}
		distance++
	}
	return powLimitWork(params)
}

// prevWorkForAlgoWithDecay2 is the successor to prevWorkForAlgoWithDecay
// that drops the minimum difficulty floor.  An algorithm with no block
// within the decay window simply contributes nothing.
func prevWorkForAlgoWithDecay2(node *blockNode, algo wire.Algo) *big.Int {
	distance := int64(0)
	for n := node; n != nil; n = n.parent {
		if distance > decayWindow {
			return big.NewInt(0)
		}
		if n.algo() == algo {
			work := blockProofBase(n)
			work.Mul(work, big.NewInt(decayWindow-distance))
			work.Div(work, big.NewInt(decayWindow))
			return work
		}
		distance++
	}
	return big.NewInt(0)
}

// prevWorkForAlgoWithDecay3 behaves like prevWorkForAlgoWithDecay2 with a
// wider decay window and feeds the geometric mean calculation.
func prevWorkForAlgoWithDecay3(node *blockNode, algo wire.Algo) *big.Int {
	distance := int64(0)
	for n := node; n != nil; n = n.parent {
		if distance > geoDecayWindow {
			return big.NewInt(0)
		}
		if n.algo() == algo {
			work := blockProofBase(n)
			work.Mul(work, big.NewInt(geoDecayWindow-distance))
			work.Div(work, big.NewInt(geoDecayWindow))
			return work
		}
		distance++
	}
	return big.NewInt(0)
}

// geometricMeanPrevWork returns the work the block of the provided node
// contributes under the geometric mean rules.  The raw work of the block is
// multiplied by the decayed work samples of every other implemented
// algorithm that still has one, the nth root of the product is taken with
// the normalization algorithm count as the root, and the result is scaled up
// to roughly match the magnitudes the earlier rules produced.
//
// Algorithms whose sample decayed to zero are excluded from the product
// instead of collapsing it, so the mean is taken over a fixed root even when
// fewer samples contribute.
func geometricMeanPrevWork(node *blockNode) *big.Int {
	blockWork := blockProofBase(node)
	nodeAlgo := node.algo()
	for algo := wire.Algo(0); algo < wire.NumAlgos; algo++ {
		if algo == nodeAlgo {
			continue
		}
		altWork := prevWorkForAlgoWithDecay3(node, algo)
		if altWork.Sign() != 0 {
			blockWork.Mul(blockWork, altWork)
		}
	}

	res := standalone.NthRoot(workAlgoCount, blockWork)
	return res.Lsh(res, 8)
}

// blockProof returns the amount of work the block of the provided node adds
// to the cumulative chain work, accounted per the normalization rules active
// at the node's height.  From oldest to newest the rules are raw work,
// per-algorithm weighted work, flat normalized work averaged over all
// algorithms, the same with two successive decay schemes, and finally the
// geometric mean of the per-algorithm work samples.
func blockProof(node *blockNode, params *chaincfg.Params) *big.Int {
	height := node.height
	nodeAlgo := node.algo()

	switch {
	case height >= params.GeoAvgWorkStart:
		return geometricMeanPrevWork(node)

	case height >= params.BlockAlgoNormalisedWorkStart:
		blockWork := blockProofBase(node)
		for algo := wire.Algo(0); algo < workAlgoCount; algo++ {
			if algo == nodeAlgo {
				continue
			}
			switch {
			case height >= params.BlockAlgoNormalisedWorkDecayStart2:
				blockWork.Add(blockWork, prevWorkForAlgoWithDecay2(node, algo))
			case height >= params.BlockAlgoNormalisedWorkDecayStart1:
				blockWork.Add(blockWork, prevWorkForAlgoWithDecay(node, algo, params))
			default:
				blockWork.Add(blockWork, prevWorkForAlgo(node, algo, params))
			}
		}
		return blockWork.Div(blockWork, big.NewInt(workAlgoCount))

	case height >= params.BlockAlgoWorkWeightStart:
		blockWork := blockProofBase(node)
		return blockWork.Mul(blockWork, big.NewInt(algoWorkFactor(nodeAlgo)))

	default:
		return blockProofBase(node)
	}
}

// blockProofEquivalentTime returns a signed duration in seconds that
// expresses the difference in cumulative chain work between the two provided
// nodes in terms of how long the chain would need to mine that much work at
// the difficulty of the provided tip.  The result is positive when the to
// node has more cumulative work and negative otherwise, and it saturates at
// the int64 extremes for differences too large to represent.
//
// A tip whose block contributes no work, which can only happen with invalid
// difficulty bits, yields zero rather than dividing by it.
func blockProofEquivalentTime(to, from, tip *blockNode, params *chaincfg.Params) int64 {
	r := new(big.Int)
	sign := int64(1)
	if to.workSum.Cmp(from.workSum) > 0 {
		r.Sub(to.workSum, from.workSum)
	} else {
		r.Sub(from.workSum, to.workSum)
		sign = -1
	}

	tipProof := blockProof(tip, params)
	if tipProof.Sign() == 0 {
		return 0
	}

	spacing := int64(params.TargetTimePerBlock.Seconds())
	r.Mul(r, big.NewInt(spacing))
	r.Div(r, tipProof)
	if r.BitLen() > 63 {
		if sign < 0 {
			return -math.MaxInt64
		}
		return math.MaxInt64
	}
	return sign * r.Int64()
}

// lastBlockIndexForAlgo returns the most recent block node mined with the
// provided algorithm at or before the provided node, or nil when no such
// block exists on the branch.
func lastBlockIndexForAlgo(node *blockNode, algo wire.Algo) *blockNode {
	for n := node; n != nil; n = n.parent {
		if n.algo() == algo {
			return n
		}
	}
	return nil
}
