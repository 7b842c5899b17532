// Copyright (c) 2024-2026 The myrd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// MaxBlockHeaderPayload is the maximum number of bytes a block header can be.
// Version 4 bytes + Timestamp 4 bytes + Bits 4 bytes + Nonce 4 bytes +
// PrevBlock and MerkleRoot hashes.
const MaxBlockHeaderPayload = 16 + (chainhash.HashSize * 2)

const (
	// blockVersionAuxpow is the header version bit that indicates the block
	// is merge-mined and carries an auxiliary proof of work.  The auxiliary
	// proof itself is not part of the fixed-size header, so reconstructing
	// the full header for such a block requires reading it from storage.
	blockVersionAuxpow int32 = 1 << 8

	// blockVersionAlgoShift is the number of bits the algorithm tag is
	// shifted left within the header version.
	blockVersionAlgoShift = 9

	// blockVersionAlgoMask masks the header version bits that encode the
	// proof-of-work algorithm tag.
	blockVersionAlgoMask int32 = 0xf << blockVersionAlgoShift
)

// littleEndian is a convenience variable since binary.LittleEndian is quite
// long.
var littleEndian = binary.LittleEndian

// BlockHeader defines information about a block and is used in the myriad
// block and headers messages.
type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	// In addition to the version number proper, it encodes the proof-of-work
	// algorithm tag and the auxiliary proof-of-work flag.
	Version int32

	// Hash of the previous block in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created.  This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32
}

// blockHeaderLen is a constant that represents the number of bytes for a block
// header.
const blockHeaderLen = MaxBlockHeaderPayload

// VersionAlgo returns the proof-of-work algorithm tag encoded in the given
// header version.  Versions with an unrecognized encoding are treated as the
// original double SHA-256 algorithm for compatibility with historical
// pre-fork headers.
func VersionAlgo(version int32) Algo {
	algo := Algo((version & blockVersionAlgoMask) >> blockVersionAlgoShift)
	if algo >= NumAlgos {
		return AlgoSHA256D
	}
	return algo
}

// VersionHasAuxpow returns whether the given header version flags an
// auxiliary proof of work.
func VersionHasAuxpow(version int32) bool {
	return version&blockVersionAuxpow != 0
}

// Algo returns the proof-of-work algorithm tag encoded in the header version.
func (h *BlockHeader) Algo() Algo {
	return VersionAlgo(h.Version)
}

// IsAuxpow returns whether the header version flags an auxiliary proof of
// work.
func (h *BlockHeader) IsAuxpow() bool {
	return VersionHasAuxpow(h.Version)
}

// VersionWithAlgo returns the given base header version with the provided
// algorithm tag encoded into it.
func VersionWithAlgo(version int32, algo Algo) int32 {
	return version&^blockVersionAlgoMask | int32(algo)<<blockVersionAlgoShift
}

// BlockHash computes the block identifier hash for the given block header.
// The identifier is always the double SHA-256 of the fixed-size header
// regardless of which algorithm the block was mined with; the per-algorithm
// hash is only used for the proof-of-work check itself.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf [blockHeaderLen]byte
	putBlockHeader(buf[:], h)
	first := sha256.Sum256(buf[:])
	return chainhash.Hash(sha256.Sum256(first[:]))
}

// Serialize encodes the block header to w using a format that is suitable
// for long-term storage such as a database.
func (h *BlockHeader) Serialize(w io.Writer) error {
	var buf [blockHeaderLen]byte
	putBlockHeader(buf[:], h)
	_, err := w.Write(buf[:])
	return err
}

// Deserialize decodes a block header from r into the receiver using a format
// that is suitable for long-term storage such as a database.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	var buf [blockHeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}

	h.Version = int32(littleEndian.Uint32(buf[0:4]))
	copy(h.PrevBlock[:], buf[4:36])
	copy(h.MerkleRoot[:], buf[36:68])
	h.Timestamp = time.Unix(int64(littleEndian.Uint32(buf[68:72])), 0)
	h.Bits = littleEndian.Uint32(buf[72:76])
	h.Nonce = littleEndian.Uint32(buf[76:80])
	return nil
}

// putBlockHeader serializes the block header into the provided byte slice
// which must be at least blockHeaderLen bytes.
func putBlockHeader(buf []byte, h *BlockHeader) {
	littleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevBlock[:])
	copy(buf[36:68], h.MerkleRoot[:])
	littleEndian.PutUint32(buf[68:72], uint32(h.Timestamp.Unix()))
	littleEndian.PutUint32(buf[72:76], h.Bits)
	littleEndian.PutUint32(buf[76:80], h.Nonce)
}

// NewBlockHeader returns a new BlockHeader using the provided version, previous
// block hash, merkle root hash, difficulty bits, and nonce with the timestamp
// set to the current time truncated to one second precision, which is the
// maximum the wire format supports.
func NewBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash,
	bits uint32, nonce uint32) *BlockHeader {

	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}
