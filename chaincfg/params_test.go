// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/myriadteam/myrd/blockchain/standalone"
)

// TestRequiredParams ensures the parameters of every registered network hold
// the relationships the consensus code relies on.
func TestRequiredParams(t *testing.T) {
	allParams := []*Params{MainNetParams(), TestNet3Params(), RegNetParams()}

	seenNets := make(map[string]bool)
	for _, params := range allParams {
		if seenNets[params.Net.String()] {
			t.Errorf("%s: duplicate network identifier %v", params.Name,
				params.Net)
		}
		seenNets[params.Net.String()] = true

		// The genesis hash must match the genesis block.
		if got := params.GenesisBlock.BlockHash(); got != params.GenesisHash {
			t.Errorf("%s: genesis hash %s does not match genesis block "+
				"hash %s", params.Name, params.GenesisHash, got)
		}

		// The compact form of the proof of work limit must decode to a
		// positive target that does not exceed the full precision limit.
		target := standalone.CompactToBig(params.PowLimitBits)
		if target.Sign() <= 0 {
			t.Errorf("%s: pow limit bits decode to a non-positive target",
				params.Name)
		}
		if target.Cmp(params.PowLimit) > 0 {
			t.Errorf("%s: pow limit bits decode above the pow limit",
				params.Name)
		}

		// The work normalization forks activate strictly in order.
		heights := []int64{
			params.BlockAlgoWorkWeightStart,
			params.BlockAlgoNormalisedWorkStart,
			params.BlockAlgoNormalisedWorkDecayStart1,
			params.BlockAlgoNormalisedWorkDecayStart2,
			params.GeoAvgWorkStart,
		}
		for i := 1; i < len(heights); i++ {
			if heights[i] <= heights[i-1] {
				t.Errorf("%s: work fork heights out of order: %v",
					params.Name, heights)
				break
			}
		}

		if params.TargetTimePerBlock <= 0 {
			t.Errorf("%s: non-positive target time per block", params.Name)
		}
	}
}

// TestParamsAreFresh ensures the constructors return independent instances so
// callers can safely mutate the returned parameters.
func TestParamsAreFresh(t *testing.T) {
	params := MainNetParams()
	params.GeoAvgWorkStart = 1

	if MainNetParams().GeoAvgWorkStart == 1 {
		t.Fatal("mutating returned params affected a later constructor call")
	}
}
