// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chaincfg defines chain configuration parameters.

In addition to the main myriad network, which is intended for the transfer of
monetary value, there is a test network (version 3) and a regression test
network.  The regression test network is convenient for development since the
work normalization hard forks all activate at low heights, which makes every
historical work-accounting policy reachable in tests.

Rather than exposing mutable global parameter state, each network is obtained
from a constructor that returns a fresh instance, and every function that
depends on the parameters accepts them explicitly.
*/
package chaincfg
