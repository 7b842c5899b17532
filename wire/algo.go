// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// Algo identifies one of the fixed set of proof-of-work hashing algorithms a
// block may be mined with.
type Algo uint8

// Constants that identify each supported proof-of-work algorithm.
//
// NOTE: These values are encoded into block header versions and therefore
// must not be reordered or renumbered.
const (
	// AlgoSHA256D is double SHA-256, the original algorithm.
	AlgoSHA256D Algo = 0

	// AlgoScrypt is the scrypt key derivation function.
	AlgoScrypt Algo = 1

	// AlgoGroestl is the Grøstl-512 hash function.
	AlgoGroestl Algo = 2

	// AlgoSkein is the Skein-512 hash function.
	AlgoSkein Algo = 3

	// AlgoQubit is the five-round Qubit chained hash.
	AlgoQubit Algo = 4

	// AlgoYescrypt is the yescrypt key derivation function.  It was added
	// after the geometric mean work fork, so several of the older work
	// normalization policies intentionally do not account for it.
	AlgoYescrypt Algo = 5
)

// NumAlgos is the total number of implemented proof-of-work algorithms.
const NumAlgos = 6

// algoNames maps each algorithm tag to its short human-readable name.
var algoNames = map[Algo]string{
	AlgoSHA256D:  "sha256d",
	AlgoScrypt:   "scrypt",
	AlgoGroestl:  "groestl",
	AlgoSkein:    "skein",
	AlgoQubit:    "qubit",
	AlgoYescrypt: "yescrypt",
}

// String returns the short human-readable name for the algorithm tag.
// Unknown tags return "unknown" rather than an error so callers such as RPC
// string tables never fail on unrecognized historical versions.
func (algo Algo) String() string {
	if name, ok := algoNames[algo]; ok {
		return name
	}

	return "unknown"
}
