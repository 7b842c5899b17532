// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package standalone provides standalone functions useful for working with the
myriad blockchain consensus rules.

The primary goal of offering these functions via a separate package is to
reduce the required dependencies to a minimum as compared to the blockchain
package, making it suitable for applications such as lightweight clients and
block explorers.

The provided functions fall into the following categories:

  - Converting to and from the compact target difficulty representation
  - Calculating work values based on the compact target difficulty
  - Checking a block hash satisfies a target difficulty and that the target
    difficulty is within a valid range
  - Integer nth roots over arbitrarily-large values, as required by the
    geometric mean work normalization across proof-of-work algorithms

# Errors

Errors returned by this package are of type standalone.RuleError and fully
support the errors.Is and errors.As functions.
*/
package standalone
