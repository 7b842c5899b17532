// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// CurrencyNet represents which myriad network a message belongs to.
type CurrencyNet uint32

// Constants used to indicate the message myriad network.  They can also be
// used to seek to the next message when a stream's state is unknown, but
// this package does not provide that functionality since it is typically a
// better idea to simply disconnect clients that are misbehaving over TCP.
const (
	// MainNet represents the main myriad network.
	MainNet CurrencyNet = 0xfbc0b6db

	// TestNet3 represents the test network (version 3).
	TestNet3 CurrencyNet = 0xf1c8d2fd

	// RegNet represents the regression test network.
	RegNet CurrencyNet = 0xdab5bffa
)

// bnStrings is a map of myriad networks back to their constant names for
// pretty printing.
var bnStrings = map[CurrencyNet]string{
	MainNet:  "MainNet",
	TestNet3: "TestNet3",
	RegNet:   "RegNet",
}

// String returns the CurrencyNet in human-readable form.
func (n CurrencyNet) String() string {
	if s, ok := bnStrings[n]; ok {
		return s
	}

	return fmt.Sprintf("Unknown CurrencyNet (%d)", uint32(n))
}
