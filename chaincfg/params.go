// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/myriadteam/myrd/wire"
)

// bigOne is 1 represented as a big.Int.  It is defined here to avoid the
// overhead of creating it multiple times.
var bigOne = big.NewInt(1)

// Params defines a myriad network by its parameters.  These parameters may be
// used by myriad applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.CurrencyNet

	// GenesisBlock defines the first block of the chain.
	GenesisBlock wire.BlockHeader

	// GenesisHash is the starting block hash.
	GenesisHash chainhash.Hash

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.  The limit is shared by all mining algorithms.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// TargetTimePerBlock defines the desired amount of time to generate each
	// block, counting blocks of every algorithm together.  This is the
	// spacing in effect since the second retarget fork and is the value the
	// work-equivalent time estimation is defined against.
	TargetTimePerBlock time.Duration

	// BlockAlgoWorkWeightStart is the height at which the per-algorithm work
	// weighting factors activate.
	BlockAlgoWorkWeightStart int64

	// BlockAlgoNormalisedWorkStart is the height at which block work is
	// normalized by averaging in the most recent work of every other
	// algorithm, searched arbitrarily far back the chain.
	BlockAlgoNormalisedWorkStart int64

	// BlockAlgoNormalisedWorkDecayStart1 is the height at which the
	// cross-algorithm contributions start decaying linearly over a 32 block
	// window with the proof-of-work limit as a floor.
	BlockAlgoNormalisedWorkDecayStart1 int64

	// BlockAlgoNormalisedWorkDecayStart2 is the height at which the decayed
	// cross-algorithm contributions lose the proof-of-work limit floor.
	BlockAlgoNormalisedWorkDecayStart2 int64

	// GeoAvgWorkStart is the height at which block work switches to the
	// geometric mean of the per-algorithm work values.
	GeoAvgWorkStart int64
}

// mustParseHash converts the passed big-endian hex string into a
// chainhash.Hash and will panic if there is an error.  It will only (and must
// only) be called with hard-coded, and therefore known good, hashes.
func mustParseHash(s string) chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic("invalid hash in source file: " + s)
	}
	return *hash
}

// MainNetParams returns the network parameters for the main myriad network.
func MainNetParams() *Params {
	// mainPowLimit is the highest proof of work value a block can have for
	// the main network.  It is the value 2^236 - 1.
	mainPowLimit := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)

	genesisBlock := wire.BlockHeader{
		Version:    2,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: mustParseHash("3f75db3c18e92f46c21530dc1222e1fddf4ccebbf88e289a6c9dc787fd6469da"),
		Timestamp:  time.Unix(1393164995, 0),
		Bits:       0x1e0fffff,
		Nonce:      2092903596,
	}

	return &Params{
		Name:         "mainnet",
		Net:          wire.MainNet,
		GenesisBlock: genesisBlock,
		GenesisHash:  genesisBlock.BlockHash(),

		PowLimit:           mainPowLimit,
		PowLimitBits:       0x1e0fffff,
		TargetTimePerBlock: time.Minute,

		// Heights of the historical work-accounting hard forks.  These must
		// never change since the cumulative work of every historical block
		// depends on them.
		BlockAlgoWorkWeightStart:           142000,
		BlockAlgoNormalisedWorkStart:       740000,
		BlockAlgoNormalisedWorkDecayStart1: 866000,
		BlockAlgoNormalisedWorkDecayStart2: 932000,
		GeoAvgWorkStart:                    1400000,
	}
}

// TestNet3Params returns the network parameters for the test network
// (version 3).
func TestNet3Params() *Params {
	// testNetPowLimit is the highest proof of work value a block can have
	// for the test network.  It is the value 2^236 - 1.
	testNetPowLimit := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)

	genesisBlock := wire.BlockHeader{
		Version:    2,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: mustParseHash("3f75db3c18e92f46c21530dc1222e1fddf4ccebbf88e289a6c9dc787fd6469da"),
		Timestamp:  time.Unix(1392876393, 0),
		Bits:       0x1e0fffff,
		Nonce:      416875379,
	}

	return &Params{
		Name:         "testnet3",
		Net:          wire.TestNet3,
		GenesisBlock: genesisBlock,
		GenesisHash:  genesisBlock.BlockHash(),

		PowLimit:           testNetPowLimit,
		PowLimitBits:       0x1e0fffff,
		TargetTimePerBlock: time.Minute,

		BlockAlgoWorkWeightStart:           150,
		BlockAlgoNormalisedWorkStart:       500,
		BlockAlgoNormalisedWorkDecayStart1: 1000,
		BlockAlgoNormalisedWorkDecayStart2: 1500,
		GeoAvgWorkStart:                    2000,
	}
}

// RegNetParams returns the network parameters for the regression test
// network.  The work normalization forks all activate at low heights so every
// historical policy is reachable without building an enormous chain.
func RegNetParams() *Params {
	// regNetPowLimit is the highest proof of work value a block can have
	// for the regression test network.  It is the value 2^255 - 1.
	regNetPowLimit := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

	genesisBlock := wire.BlockHeader{
		Version:    2,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: mustParseHash("3f75db3c18e92f46c21530dc1222e1fddf4ccebbf88e289a6c9dc787fd6469da"),
		Timestamp:  time.Unix(1296688602, 0),
		Bits:       0x207fffff,
		Nonce:      2,
	}

	return &Params{
		Name:         "regnet",
		Net:          wire.RegNet,
		GenesisBlock: genesisBlock,
		GenesisHash:  genesisBlock.BlockHash(),

		PowLimit:           regNetPowLimit,
		PowLimitBits:       0x207fffff,
		TargetTimePerBlock: time.Minute,

		BlockAlgoWorkWeightStart:           20,
		BlockAlgoNormalisedWorkStart:       40,
		BlockAlgoNormalisedWorkDecayStart1: 60,
		BlockAlgoNormalisedWorkDecayStart2: 80,
		GeoAvgWorkStart:                    100,
	}
}
