// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package blockchain implements the in-memory view of the myriad block chain.

It tracks the tree of connected block headers, provides efficient ancestor
lookups over it through a deterministic skip list, projects the current best
chain into a height-indexed view, builds the sparse block locators used for
chain synchronization, and implements the multi-algorithm cumulative work
accounting that best chain selection and difficulty retargeting depend on.

Block validation, persistent storage, and networking are intentionally not
part of this package; it consumes already-validated headers and an optional
header source for merge-mined blocks whose auxiliary proofs live on disk.
*/
package blockchain
