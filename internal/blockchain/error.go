// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific ErrorKind.
const (
	// ErrDuplicateBlock indicates a block with the same hash already
	// exists in the block index.
	ErrDuplicateBlock = ErrorKind("ErrDuplicateBlock")

	// ErrMissingParent indicates the parent of a header being added to the
	// block index is not known.
	ErrMissingParent = ErrorKind("ErrMissingParent")

	// ErrUnknownBlock indicates a requested block hash is not known to the
	// block index.
	ErrUnknownBlock = ErrorKind("ErrUnknownBlock")

	// ErrNotInMainChain indicates a requested block height or hash is not
	// part of the main chain.
	ErrNotInMainChain = ErrorKind("ErrNotInMainChain")

	// ErrNoAuxpowSource indicates the full header of a merge-mined block
	// was requested, but no header source to read the auxiliary proof of
	// work from was configured.
	ErrNoAuxpowSource = ErrorKind("ErrNoAuxpowSource")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ContextError wraps an error with additional context.  It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific
// wrapped error by checking the underlying error.
type ContextError struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e ContextError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e ContextError) Unwrap() error {
	return e.Err
}

// contextError creates a ContextError given a set of arguments.
func contextError(kind ErrorKind, desc string) ContextError {
	return ContextError{Err: kind, Description: desc}
}

// unknownBlockError creates a ContextError with the kind of error set to
// ErrUnknownBlock and a description that includes the provided hash.
func unknownBlockError(hash *chainhash.Hash) ContextError {
	str := fmt.Sprintf("block %s is not known", hash)
	return contextError(ErrUnknownBlock, str)
}
