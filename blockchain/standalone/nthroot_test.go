// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"math/big"
	"testing"
)

// fromHex converts the passed hex string into a big integer and will panic if
// there is an error.  It will only (and must only) be called with hard-coded,
// and therefore known good, values.
func fromHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex in source file: " + s)
	}
	return n
}

// TestNthRoot ensures the integer nth root function returns the floor of the
// real root for a mix of hand-derived values, exact powers, and full 256-bit
// magnitudes.
func TestNthRoot(t *testing.T) {
	tests := []struct {
		name string
		root int
		n    *big.Int
		want *big.Int
	}{
		{"5th root of 0", 5, big.NewInt(0), big.NewInt(0)},
		{"5th root of 1", 5, big.NewInt(1), big.NewInt(1)},
		{"5th root of 31", 5, big.NewInt(31), big.NewInt(1)},
		{"5th root of 32", 5, big.NewInt(32), big.NewInt(2)},
		{"5th root of 243", 5, big.NewInt(243), big.NewInt(3)},
		{"5th root of 2^40", 5, new(big.Int).Lsh(big.NewInt(1), 40), big.NewInt(256)},
		{"5th root of 10^12", 5, big.NewInt(1000000000000), big.NewInt(251)},
		{"square root", 2, big.NewInt(144), big.NewInt(12)},
		{"square root floor", 2, big.NewInt(143), big.NewInt(11)},
		{"cube root", 3, big.NewInt(27), big.NewInt(3)},
		{
			"5th root of 2^255",
			5,
			new(big.Int).Lsh(big.NewInt(1), 255),
			new(big.Int).Lsh(big.NewInt(1), 51),
		},
		{
			"5th root of 2^255 - 1",
			5,
			new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1)),
			new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 51), big.NewInt(1)),
		},
		{
			"5th root of a typical work product",
			5,
			new(big.Int).Mul(big.NewInt(4295032833), big.NewInt(4252082504)),
			big.NewInt(7117),
		},
		{
			"5th root of max 256-bit value",
			5,
			fromHex("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
			fromHex("93088c35d733a"),
		},
	}

	for _, test := range tests {
		if got := NthRoot(test.root, test.n); got.Cmp(test.want) != 0 {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

// TestNthRootFloorProperty exercises the root around exact powers where the
// oscillation detection in the refinement has to settle on the floor.
func TestNthRootFloorProperty(t *testing.T) {
	one := big.NewInt(1)
	bases := []*big.Int{
		big.NewInt(2), big.NewInt(3), big.NewInt(10), big.NewInt(255),
		big.NewInt(256), big.NewInt(12345), big.NewInt(1<<31 + 7),
	}
	for root := 2; root <= 6; root++ {
		bigRoot := big.NewInt(int64(root))
		for _, base := range bases {
			power := new(big.Int).Exp(base, bigRoot, nil)

			// The root of base^root is exactly base.
			if got := NthRoot(root, power); got.Cmp(base) != 0 {
				t.Errorf("root %d of %v^%d: got %v, want %v", root, base,
					root, got, base)
			}

			// The root of base^root - 1 is base - 1.
			pm1 := new(big.Int).Sub(power, one)
			want := new(big.Int).Sub(base, one)
			if got := NthRoot(root, pm1); got.Cmp(want) != 0 {
				t.Errorf("root %d of %v^%d - 1: got %v, want %v", root, base,
					root, got, want)
			}

			// The root of base^root + 1 is still base.
			pp1 := new(big.Int).Add(power, one)
			if got := NthRoot(root, pp1); got.Cmp(base) != 0 {
				t.Errorf("root %d of %v^%d + 1: got %v, want %v", root, base,
					root, got, base)
			}
		}
	}
}

// TestNthRootPanics ensures the documented programmer error conditions panic.
func TestNthRootPanics(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}

	assertPanics("root of one", func() {
		NthRoot(1, big.NewInt(10))
	})
	assertPanics("negative value", func() {
		NthRoot(5, big.NewInt(-1))
	})
}
