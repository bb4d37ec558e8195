// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framearchive

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is the BLAKE3 keyed hash of a raw frame.
type Digest [32]byte

// frameDomainKey separates frame digests from any other BLAKE3 use of
// the same bytes. ASCII, zero-padded to 32 bytes. Changing it
// invalidates every stored digest.
var frameDomainKey = [32]byte{
	'h', 'e', 'a', 't', 'e', 'r', 'l', 'i', 'n', 'k', '.', 'f', 'r', 'a', 'm', 'e',
}

// HashFrame returns the digest of raw.
func HashFrame(raw []byte) Digest {
	hasher, err := blake3.NewKeyed(frameDomainKey[:])
	if err != nil {
		// Only returned for a key that is not 32 bytes.
		panic("framearchive: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(raw)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters, for log lines.
func (d Digest) Short() string {
	return d.String()[:12]
}
