// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"math/big"
)

// nthRootMaxIters is the hard cap on the number of Newton refinement
// iterations performed by NthRoot.  The refinement converges in far fewer
// iterations for 256-bit magnitudes and the termination logic never relies on
// reaching the cap.
const nthRootMaxIters = 20

// NthRoot returns the integer nth root of n, that is the largest value x such
// that x^root <= n.  The result for n of zero is zero for any root.
//
// The root must be greater than one and n must not be negative since neither
// ever occurs when normalizing proof-of-work values.  The function panics
// otherwise since that is a programmer error.
//
// The implementation constructs a starting approximation with 8 significant
// bits by bisecting over the top bits of n and then refines it with the
// Newton iteration
//
//	cur = cur + (n/cur^(root-1) - cur)/root
//
// where the integer division makes the final corrections oscillate between
// the floor of the root and the floor plus one.  That oscillation is detected
// by tracking the sign of the last unit correction so the loop terminates on
// the floor instead of cycling.
func NthRoot(root int, n *big.Int) *big.Int {
	if root <= 1 {
		panic("NthRoot called with a root that is not greater than one")
	}
	if n.Sign() < 0 {
		panic("NthRoot called with a negative value")
	}
	if n.Sign() == 0 {
		return big.NewInt(0)
	}

	// pow raises base to the root'th (or root-1'th) power by repeated
	// multiplication which is faster than Exp for such tiny exponents.
	pow := func(base *big.Int, exp int) *big.Int {
		result := big.NewInt(1)
		for i := 0; i < exp; i++ {
			result.Mul(result, base)
		}
		return result
	}

	// Estimate the bit length of the result and bisect a starting
	// approximation with up to 8 significant bits over the top bits of n.
	rootBits := (n.BitLen() + root - 1) / root
	startingBits := rootBits
	if startingBits > 8 {
		startingBits = 8
	}
	upper := new(big.Int).Rsh(n, uint((rootBits-startingBits)*root))
	cur := big.NewInt(0)
	for i := startingBits - 1; i >= 0; i-- {
		next := new(big.Int).Add(cur, new(big.Int).Lsh(bigOne, uint(i)))
		if pow(next, root).Cmp(upper) <= 0 {
			cur = next
		}
	}
	if rootBits == startingBits {
		return cur
	}
	cur.Lsh(cur, uint(rootBits-startingBits))

	// Refine the approximation.  The terminate flag tracks the sign of the
	// last unit correction: +1 after incrementing by one, -1 after
	// decrementing by one, and 0 after a larger step.  Two successive unit
	// corrections with opposite signs mean the value is oscillating around
	// the true root and the smaller of the pair is the floor.
	bigRoot := big.NewInt(int64(root))
	terminate := 0
	for it := 0; it < nthRootMaxIters; it++ {
		quotient := new(big.Int).Div(n, pow(cur, root-1))
		cmp := cur.Cmp(quotient)
		if cmp == 0 {
			return cur
		}

		if cmp > 0 {
			delta := new(big.Int).Sub(cur, quotient)
			if terminate == 1 {
				return cur.Sub(cur, bigOne)
			}
			if delta.Cmp(bigRoot) <= 0 {
				cur.Sub(cur, bigOne)
				terminate = -1
				continue
			}
			cur.Sub(cur, delta.Div(delta, bigRoot))
		} else {
			delta := new(big.Int).Sub(quotient, cur)
			if terminate == -1 {
				return cur
			}
			if delta.Cmp(bigRoot) <= 0 {
				cur.Add(cur, bigOne)
				terminate = 1
				continue
			}
			cur.Add(cur, delta.Div(delta, bigRoot))
		}
		terminate = 0
	}
	return cur
}
