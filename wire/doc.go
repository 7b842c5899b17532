// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the myriad wire protocol primitives.

At the moment this is limited to the block header, its serialization, and the
proof-of-work algorithm tag that is encoded in the header version.  Blocks of
different algorithms are interleaved on the same chain, so the tag is part of
the consensus-critical header encoding rather than an out-of-band attribute.
*/
package wire
